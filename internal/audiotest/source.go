// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides sources and callback recorders for tests.
package audiotest

import (
	"io"
	"math"
)

// Source generates interleaved float32 samples from a waveform function.
// It satisfies audio.Source without importing it.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     func(frame, ch int) float32

	Closed bool
}

// NewSource creates a source producing frames frames of wave.
func NewSource(rate, channels, frames int, wave func(frame, ch int) float32) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: wave}
}

// Ramp yields the running sample index as the sample value, which makes
// ordering and duplication errors easy to spot.
func Ramp(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(frame, ch int) float32 {
		return float32(frame*channels + ch)
	})
}

// Constant yields value on every channel.
func Constant(rate, channels, frames int, value float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return value })
}

// Sine yields a full scale sine at freq Hz on every channel.
func Sine(rate, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 1024 * s.channels }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

// Rewind starts the waveform over.
func (s *Source) Rewind() { s.pos = 0 }

// ReadSamples fills whole frames. The final chunk is returned together with
// io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
