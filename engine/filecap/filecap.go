// SPDX-License-Identifier: EPL-2.0

// Package filecap is an engine that plays an audio file into a sink.
//
// The file is decoded through an audio.Registry picked by extension, shaped
// by the optional mono mix and resampling, and delivered in fixed size
// buffers from the engine's own goroutine.
package filecap

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/engine"
)

// Config selects the input file and how it is delivered.
type Config struct {
	// Path of the file to play. Its extension selects the decoder.
	Path string
	// Registry to look decoders up in, audio.Default() when nil.
	Registry *audio.Registry

	BufferFrames int
	Mono         bool
	SampleRate   int
	Realtime     bool

	Logger *zap.Logger
}

// Format describes what the engine delivers.
type Format struct {
	SampleRate int
	Channels   int
}

// Engine plays one file. It is single use.
type Engine struct {
	*engine.Streamer

	path string
}

var _ engine.Engine = (*Engine)(nil)

// Open decodes the header of cfg.Path and prepares the stream. The file
// stays open until the engine stops.
func Open(cfg Config) (*Engine, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: no input path", engine.ErrInvalidConfig)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = audio.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("path", cfg.Path))

	dec, err := reg.ForPath(cfg.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("filecap: %w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("filecap: decode %s: %w", cfg.Path, err)
	}

	s, err := engine.NewStreamer(src, engine.StreamConfig{
		BufferFrames: cfg.BufferFrames,
		Mono:         cfg.Mono,
		SampleRate:   cfg.SampleRate,
		Realtime:     cfg.Realtime,
		Logger:       logger,
	})
	if err != nil {
		src.Close()
		return nil, err
	}

	logger.Debug("input opened",
		zap.Int("source_rate", src.SampleRate()),
		zap.Int("source_channels", src.Channels()),
	)
	return &Engine{Streamer: s, path: cfg.Path}, nil
}

// Path returns the file being played.
func (e *Engine) Path() string { return e.path }

// Format returns the delivered sample layout.
func (e *Engine) Format() Format {
	return Format{SampleRate: e.SampleRate(), Channels: e.Channels()}
}
