// SPDX-License-Identifier: EPL-2.0

//go:build windows

package asiocap

import (
	"context"

	"github.com/xsjk/go-asio"
	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/engine"
)

// Engine captures one channel of an ASIO device.
type Engine struct {
	cfg    Config
	logger *zap.Logger
	device asio.Device
	conv   converter
	pump   engine.Pump
}

var _ engine.Engine = (*Engine)(nil)

// New validates cfg. The driver is loaded by Start.
func New(cfg Config) (*Engine, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		logger: cfg.Logger.With(zap.String("driver", cfg.Driver)),
		conv:   converter{channel: cfg.InChannel},
	}, nil
}

// Start implements engine.Engine. Buffers arrive on the driver thread.
func (e *Engine) Start(ctx context.Context, sink engine.Sink) error {
	if sink == nil {
		return engine.ErrNilSink
	}
	return e.pump.Start(ctx, func(ctx context.Context) error {
		e.device.Load(e.cfg.Driver)
		e.device.SetSampleRate(e.cfg.SampleRate)
		e.device.Open()
		e.device.Start(func(in, _ [][]int32) {
			e.conv.deliver(in, sink)
		})
		e.logger.Info("capture started",
			zap.Float64("sample_rate", e.cfg.SampleRate),
			zap.Int("channel", e.cfg.InChannel),
		)

		<-ctx.Done()

		e.device.Stop()
		e.device.Close()
		e.device.Unload()
		e.logger.Info("capture stopped", zap.Uint64("blocks", e.conv.blocks))
		return ctx.Err()
	})
}

// Stop implements engine.Engine. The driver no longer calls the sink once
// it returns.
func (e *Engine) Stop() error { return e.pump.Stop() }
