// SPDX-License-Identifier: EPL-2.0

// Command splitsound attaches a capture engine to a bridge and shows what
// the registered callback receives: level meters in a terminal UI, or one
// log line per delivery.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	splitsound "github.com/symboxtra/SplitSound"
	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/hostloop"
	"github.com/symboxtra/SplitSound/meter"
	"github.com/symboxtra/SplitSound/record"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to YAML config file")
		engineKind = flag.String("engine", "", "Engine: file, synth, pattern, gst or asio")
		input      = flag.String("in", "", "Input: file path, GStreamer source element or ASIO driver")
		recordPath = flag.String("record", "", "Record received samples to this WAV file")
		ui         = flag.Bool("ui", false, "Show level meters in a terminal UI")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *engineKind != "" {
		cfg.Engine.Kind = *engineKind
	}
	if *input != "" {
		cfg.SetInput(*input)
	}
	if *recordPath != "" {
		cfg.Record.Path = *recordPath
	}
	if *ui {
		cfg.UI.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: splitsound [-config file.yaml] [-engine file|synth|pattern|gst|asio] [-in input] [-record out.wav] [-ui]")
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	useUI := cfg.UI.Enabled && term.IsTerminal(int(os.Stdout.Fd()))

	logger, err := cfg.Logger(useUI)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	registerFormats(audio.Default())

	src, err := newSource(cfg, audio.Default(), logger)
	if err != nil {
		return err
	}
	t, err := newTap(cfg, src, logger, !useUI)
	if err != nil {
		src.engine.Stop()
		return err
	}

	logger.Info("starting", zap.Stringer("source", src), zap.Bool("ui", useUI))
	if useUI {
		return runUI(src, t, logger)
	}
	return runPlain(src, t, logger)
}

func newTap(cfg *Config, src source, logger *zap.Logger, verbose bool) (*tap, error) {
	t := &tap{meter: meter.New(src.channels), logger: logger, verbose: verbose}
	if cfg.Record.Path == "" {
		return t, nil
	}
	if src.rate == 0 {
		return nil, fmt.Errorf("%w: %s has no sample rate to record at", errConfig, src.name)
	}

	rec, err := record.Create(cfg.Record.Path, src.rate, src.channels, record.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	t.rec = rec
	return t, nil
}

// runPlain uses a host loop on the main goroutine as the callback context.
func runPlain(src source, t *tap, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := hostloop.New(hostloop.WithLogger(logger))
	b := splitsound.New(loop, splitsound.WithLogger(logger))

	if err := b.SetCallback(t); err != nil {
		return err
	}
	if err := b.Attach(ctx, src.engine); err != nil {
		return errors.Join(err, b.Close())
	}

	go func() {
		waitEngine(ctx, src.engine)
		loop.Close()
	}()

	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if eerr := engineErr(src.engine); eerr != nil {
		logger.Error("engine failed", zap.Error(eerr))
		err = errors.Join(err, eerr)
	}

	logger.Info("capture finished", zap.Stringer("stats", b.Stats()))
	return errors.Join(err, b.Close())
}

// waitEngine returns when e runs out of input or ctx is done. Engines
// without a Done channel run until ctx is done.
func waitEngine(ctx context.Context, e engine.Engine) {
	d, ok := e.(interface{ Done() <-chan struct{} })
	if !ok {
		<-ctx.Done()
		return
	}

	select {
	case <-d.Done():
	case <-ctx.Done():
	}
}

func engineErr(e engine.Engine) error {
	if d, ok := e.(interface{ Err() error }); ok {
		return d.Err()
	}
	return nil
}
