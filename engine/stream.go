// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/frame"
)

const (
	// DefaultBufferFrames is the delivery size when none is configured.
	DefaultBufferFrames = 1024

	maxEmptyReads = 100
)

// StreamConfig shapes what a Streamer delivers.
type StreamConfig struct {
	// BufferFrames is the number of frames per delivery.
	BufferFrames int
	// Mono averages all channels into one.
	Mono bool
	// SampleRate resamples the input when set.
	SampleRate int
	// Realtime paces deliveries at the output sample rate instead of
	// delivering as fast as the input decodes.
	Realtime bool

	Logger *zap.Logger
}

// Streamer is an engine that pulls from an audio.Source and delivers fixed
// size buffers from its own goroutine. It reuses a single buffer for every
// delivery. The streamer owns the source and closes it when it stops.
type Streamer struct {
	src    audio.Source
	cfg    StreamConfig
	logger *zap.Logger

	pump      Pump
	closeOnce sync.Once
	buffers   atomic.Uint64
}

// NewStreamer wraps src, applying the resampling and mixing in cfg.
func NewStreamer(src audio.Source, cfg StreamConfig) (*Streamer, error) {
	if cfg.BufferFrames < 0 || cfg.SampleRate < 0 {
		return nil, fmt.Errorf("%w: buffer frames %d, sample rate %d", ErrInvalidConfig, cfg.BufferFrames, cfg.SampleRate)
	}
	if src.SampleRate() <= 0 || src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: source reports %d Hz x%d", ErrInvalidConfig, src.SampleRate(), src.Channels())
	}
	if cfg.BufferFrames == 0 {
		cfg.BufferFrames = DefaultBufferFrames
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.SampleRate > 0 && cfg.SampleRate != src.SampleRate() {
		src = audio.NewResampler(src, cfg.SampleRate)
	}
	if cfg.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	return &Streamer{src: src, cfg: cfg, logger: cfg.Logger}, nil
}

// SampleRate returns the rate of the delivered samples.
func (s *Streamer) SampleRate() int { return s.src.SampleRate() }

// Channels returns the interleaved channel count of the delivered samples.
func (s *Streamer) Channels() int { return s.src.Channels() }

// Buffers returns the number of deliveries so far.
func (s *Streamer) Buffers() uint64 { return s.buffers.Load() }

// Start implements Engine.
func (s *Streamer) Start(ctx context.Context, sink Sink) error {
	if sink == nil {
		return ErrNilSink
	}
	return s.pump.Start(ctx, func(ctx context.Context) error {
		defer s.closeSource()
		return s.stream(ctx, sink)
	})
}

// Stop implements Engine.
func (s *Streamer) Stop() error {
	if !s.pump.Started() {
		s.closeSource()
		return nil
	}
	return s.pump.Stop()
}

// Done is closed when the streamer stops delivering.
func (s *Streamer) Done() <-chan struct{} { return s.pump.Done() }

// Err returns why the streamer stopped, nil for end of input or Stop.
func (s *Streamer) Err() error { return s.pump.Err() }

func (s *Streamer) stream(ctx context.Context, sink Sink) error {
	channels := s.src.Channels()
	rate := float64(s.src.SampleRate())
	buf := make([]float32, s.cfg.BufferFrames*channels)

	s.logger.Info("stream started",
		zap.Int("sample_rate", s.src.SampleRate()),
		zap.Int("channels", channels),
		zap.Int("buffer_frames", s.cfg.BufferFrames),
		zap.Bool("realtime", s.cfg.Realtime),
	)

	start := time.Now()
	var frames int64
	empty := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := s.src.ReadSamples(buf)
		if n > 0 {
			empty = 0
			sink.Deliver(frame.Of(buf[:n]))
			s.buffers.Add(1)

			if s.cfg.Realtime {
				frames += int64(n / channels)
				due := start.Add(time.Duration(float64(frames) / rate * float64(time.Second)))
				if werr := sleepUntil(ctx, due); werr != nil {
					return werr
				}
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			s.logger.Info("stream finished", zap.Uint64("buffers", s.buffers.Load()))
			return nil
		case err != nil:
			s.logger.Error("stream read failed", zap.Error(err))
			return fmt.Errorf("engine: read: %w", err)
		case n == 0:
			if empty++; empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
		}
	}
}

func (s *Streamer) closeSource() {
	s.closeOnce.Do(func() {
		if err := s.src.Close(); err != nil {
			s.logger.Warn("closing source failed", zap.Error(err))
		}
	})
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
