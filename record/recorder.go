// SPDX-License-Identifier: EPL-2.0

// Package record writes delivered samples to a 16-bit WAV file.
//
// A Recorder is a callback: register it and every delivery is appended to
// the recording. Releasing the handle closes the Recorder, which finalizes
// the file.
package record

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/formats/wav"
	"github.com/symboxtra/SplitSound/utils"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger for write failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// Recorder appends deliveries to a WAV stream. It implements
// registry.Receiver and io.Closer.
type Recorder struct {
	mu       sync.Mutex
	rate     int
	channels int
	logger   *zap.Logger

	// streaming to a seekable destination
	stream *wav.Writer
	file   *os.File

	// buffered until Close for plain writers
	dst     io.Writer
	pending []int16

	samples uint64
	err     error
	closed  bool
}

// New records into dst. Samples are held in memory and the whole file is
// written on Close, so dst does not need to seek.
func New(dst io.Writer, sampleRate, channels int, opts ...Option) (*Recorder, error) {
	r, err := newRecorder(sampleRate, channels, opts)
	if err != nil {
		return nil, err
	}
	r.dst = dst
	return r, nil
}

// Create records into a new file at path, streaming as deliveries arrive.
func Create(path string, sampleRate, channels int, opts ...Option) (*Recorder, error) {
	r, err := newRecorder(sampleRate, channels, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	r.file = f
	r.stream = wav.NewWriter(f, sampleRate, channels)
	r.logger = r.logger.With(zap.String("path", path))
	return r, nil
}

func newRecorder(rate, channels int, opts []Option) (*Recorder, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz x%d", ErrInvalidFormat, rate, channels)
	}
	r := &Recorder{rate: rate, channels: channels, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Receive appends samples[:count]. Deliveries after Close are ignored. The
// first failure is kept and reported by Err and Close.
func (r *Recorder) Receive(samples []float64, count uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.err != nil {
		return
	}
	samples = samples[:min(int(count), len(samples))]
	if len(samples)%r.channels != 0 {
		r.fail(fmt.Errorf("%w: %d samples over %d channels", ErrPartialFrame, len(samples), r.channels))
		return
	}

	if r.stream != nil {
		if err := r.stream.WriteFloat64(samples); err != nil {
			r.fail(err)
			return
		}
	} else {
		for _, s := range samples {
			r.pending = append(r.pending, utils.Float64ToInt16(s))
		}
	}
	r.samples += uint64(len(samples))
}

func (r *Recorder) fail(err error) {
	r.err = err
	r.logger.Error("recording failed", zap.Error(err))
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.samples / uint64(r.channels)
}

// Err returns the first write failure.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// Close finalizes the WAV file. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.err
	}
	r.closed = true

	var err error
	if r.stream != nil {
		err = r.stream.Close()
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	} else {
		err = wav.WriteWAV16(r.dst, r.rate, r.channels, r.pending)
		r.pending = nil
	}
	if err != nil && r.err == nil {
		r.fail(err)
	}

	r.logger.Info("recording closed",
		zap.Uint64("frames", r.samples/uint64(r.channels)),
		zap.Int("sample_rate", r.rate),
		zap.Int("channels", r.channels),
	)
	return r.err
}
