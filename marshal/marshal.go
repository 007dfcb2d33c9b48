// SPDX-License-Identifier: EPL-2.0

// Package marshal turns borrowed frame views into owned host values.
//
// Samples are widened from float32 to float64, which is exact: every float32
// value has an identical float64 representation. No scaling, rounding or
// resampling happens here.
package marshal

import (
	"fmt"

	"github.com/symboxtra/SplitSound/frame"
)

// Sequence is an owned, ordered copy of one delivered buffer.
type Sequence struct {
	Samples []float64
	Count   uint32
}

// Marshal copies every sample of v, in index order, into a new Sequence.
// An empty view yields an empty, non-nil Samples slice with Count 0.
func Marshal(v frame.View) Sequence {
	return MarshalInto(make([]float64, 0, v.Len()), v)
}

// MarshalInto is Marshal reusing dst's backing array when it is large
// enough. The returned Sequence aliases dst in that case, so callers that
// hand the result to another goroutine must not reuse dst afterwards.
func MarshalInto(dst []float64, v frame.View) Sequence {
	src := v.Borrow()

	if cap(dst) < len(src) || dst == nil {
		dst = make([]float64, len(src))
	} else {
		dst = dst[:len(src)]
	}

	for i, s := range src {
		dst[i] = float64(s)
	}

	return Sequence{Samples: dst, Count: uint32(len(src))}
}

// Len returns the number of samples.
func (s Sequence) Len() int { return len(s.Samples) }

// Frames returns the number of complete frames for an interleaved layout.
func (s Sequence) Frames(channels int) (int, error) {
	if channels <= 0 || len(s.Samples)%channels != 0 {
		return 0, fmt.Errorf("%w: %d samples, %d channels", ErrChannelLayout, len(s.Samples), channels)
	}
	return len(s.Samples) / channels, nil
}

// Channel extracts channel ch from an interleaved sequence of the given
// channel count.
func (s Sequence) Channel(ch, channels int) ([]float64, error) {
	frames, err := s.Frames(channels)
	if err != nil {
		return nil, err
	}
	if ch < 0 || ch >= channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrChannelRange, ch, channels)
	}

	out := make([]float64, frames)
	for f := range frames {
		out[f] = s.Samples[f*channels+ch]
	}

	return out, nil
}

// Deinterleave splits an interleaved sequence into one slice per channel.
func (s Sequence) Deinterleave(channels int) ([][]float64, error) {
	frames, err := s.Frames(channels)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}

	// Stereo is by far the common case
	if channels == 2 {
		left, right := out[0], out[1]
		for f := range frames {
			idx := f << 1
			left[f] = s.Samples[idx]
			right[f] = s.Samples[idx+1]
		}
		return out, nil
	}

	for f := range frames {
		base := f * channels
		for c := range channels {
			out[c][f] = s.Samples[base+c]
		}
	}

	return out, nil
}
