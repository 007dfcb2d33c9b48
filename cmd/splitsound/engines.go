// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/engine/asiocap"
	"github.com/symboxtra/SplitSound/engine/filecap"
	"github.com/symboxtra/SplitSound/engine/gstcap"
	"github.com/symboxtra/SplitSound/engine/synth"
	"github.com/symboxtra/SplitSound/formats/aiff"
	"github.com/symboxtra/SplitSound/formats/mp3"
	"github.com/symboxtra/SplitSound/formats/vorbis"
	"github.com/symboxtra/SplitSound/formats/wav"
)

func registerFormats(reg *audio.Registry) {
	reg.Register("wav", wav.Decoder{}, "wave")
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{}, "oga")
	reg.Register("aiff", aiff.Decoder{}, "aif")
}

// source is a configured engine and the layout of what it delivers.
type source struct {
	name     string
	engine   engine.Engine
	rate     int
	channels int
}

func (s source) String() string {
	if s.rate == 0 {
		return s.name
	}
	return fmt.Sprintf("%s, %d Hz x%d", s.name, s.rate, s.channels)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func newSource(cfg *Config, reg *audio.Registry, logger *zap.Logger) (source, error) {
	e := cfg.Engine

	switch e.Kind {
	case "file":
		f, err := filecap.Open(filecap.Config{
			Path:         e.Path,
			Registry:     reg,
			BufferFrames: e.BufferFrames,
			Mono:         e.Mono,
			SampleRate:   e.SampleRate,
			Realtime:     e.Realtime,
			Logger:       logger,
		})
		if err != nil {
			return source{}, err
		}
		format := f.Format()
		return source{name: e.Path, engine: f, rate: format.SampleRate, channels: format.Channels}, nil

	case "synth":
		rate, channels := orDefault(e.SampleRate, 48000), orDefault(e.Channels, 1)
		s, err := synth.NewSine(synth.SineConfig{
			Freq:         e.Freq,
			Amplitude:    0.5,
			SampleRate:   rate,
			Channels:     channels,
			Duration:     e.Duration,
			BufferFrames: e.BufferFrames,
			Realtime:     e.Realtime,
			Logger:       logger,
		})
		if err != nil {
			return source{}, err
		}
		return source{name: fmt.Sprintf("sine %g Hz", e.Freq), engine: s, rate: rate, channels: channels}, nil

	case "pattern":
		return source{name: "self test pattern", engine: synth.NewPattern(nil, 0), channels: 1}, nil

	case "gst":
		rate, channels := orDefault(e.SampleRate, 48000), orDefault(e.Channels, 2)
		g, err := gstcap.New(gstcap.Config{
			Source:     e.Source,
			Device:     e.Device,
			SampleRate: rate,
			Channels:   channels,
			Logger:     logger,
		})
		if err != nil {
			return source{}, err
		}
		name := e.Source
		if name == "" {
			name = gstcap.DefaultSource
		}
		return source{name: name, engine: g, rate: rate, channels: channels}, nil

	case "asio":
		rate := orDefault(e.SampleRate, 44100)
		a, err := asiocap.New(asiocap.Config{
			Driver:     e.Device,
			SampleRate: float64(rate),
			InChannel:  e.Channel,
			Logger:     logger,
		})
		if err != nil {
			return source{}, err
		}
		return source{name: e.Device, engine: a, rate: rate, channels: 1}, nil
	}

	return source{}, fmt.Errorf("%w: unknown engine %q", errConfig, e.Kind)
}
