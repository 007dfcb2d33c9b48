// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/engine"
)

// SineConfig describes a generated tone.
type SineConfig struct {
	Freq       float64
	Amplitude  float64
	SampleRate int
	Channels   int
	// Duration of the tone, endless when zero.
	Duration time.Duration

	BufferFrames int
	Realtime     bool
	Logger       *zap.Logger
}

// Sine is an engine that delivers a generated tone on every channel.
type Sine struct {
	*engine.Streamer
}

var _ engine.Engine = (*Sine)(nil)

// NewSine validates cfg and prepares the generator. Amplitude defaults to
// full scale and Channels to mono.
func NewSine(cfg SineConfig) (*Sine, error) {
	if cfg.Freq <= 0 || cfg.SampleRate <= 0 || cfg.Channels < 0 || cfg.Duration < 0 {
		return nil, fmt.Errorf("%w: sine %g Hz at %d Hz x%d", engine.ErrInvalidConfig, cfg.Freq, cfg.SampleRate, cfg.Channels)
	}
	if cfg.Amplitude == 0 {
		cfg.Amplitude = 1
	}
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}

	frames := -1
	if cfg.Duration > 0 {
		frames = int(cfg.Duration.Seconds() * float64(cfg.SampleRate))
	}

	s, err := engine.NewStreamer(&tone{
		rate:     cfg.SampleRate,
		channels: cfg.Channels,
		step:     2 * math.Pi * cfg.Freq / float64(cfg.SampleRate),
		amp:      cfg.Amplitude,
		frames:   frames,
	}, engine.StreamConfig{
		BufferFrames: cfg.BufferFrames,
		Realtime:     cfg.Realtime,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Sine{Streamer: s}, nil
}

// tone is a phase continuous sine source. frames < 0 never ends.
type tone struct {
	rate     int
	channels int
	step     float64
	amp      float64
	phase    float64
	frames   int
	pos      int
}

func (t *tone) SampleRate() int { return t.rate }
func (t *tone) Channels() int   { return t.channels }
func (t *tone) BufSize() int    { return 1024 * t.channels }
func (t *tone) Close() error    { return nil }

func (t *tone) ReadSamples(dst []float32) (int, error) {
	n := len(dst) / t.channels
	if t.frames >= 0 {
		n = min(n, t.frames-t.pos)
		if n <= 0 {
			return 0, io.EOF
		}
	}

	for f := range n {
		v := float32(t.amp * math.Sin(t.phase))
		for ch := range t.channels {
			dst[f*t.channels+ch] = v
		}
		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	t.pos += n

	return n * t.channels, nil
}
