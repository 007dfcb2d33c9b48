// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/symboxtra/SplitSound/utils"
)

const maxEmptyReads = 100

// Resampler streams src at another sample rate using cubic interpolation.
// It works on interleaved samples and preserves the channel count. When
// downsampling, a one-pole low-pass runs ahead of the interpolator.
type Resampler struct {
	src      Source
	rate     int
	channels int
	step     float64 // source frames per output frame

	// hist[1] is the frame at cur, hist[0] the one before it, hist[2] and
	// hist[3] the two after it. Past the end the last frame repeats.
	hist   [4][]float32
	cur    int
	pulled int
	pos    float64
	primed bool

	in           []float32
	inPos, inLen int
	eof          bool
	err          error

	lowpass bool
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(1, src.Channels())
	r := &Resampler{
		src:      src,
		rate:     dstRate,
		channels: channels,
		step:     float64(src.SampleRate()) / float64(dstRate),
		in:       make([]float32, max(channels, src.BufSize()-src.BufSize()%channels)),
		state:    make([]float32, channels),
	}
	r.lowpass = r.step > 1
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

// ReadSamples produces samples at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.err != nil {
		return 0, r.err
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			r.err = err
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0
	for written < want {
		for r.pos >= 1 {
			r.pos--
			if err := r.shift(); err != nil {
				r.err = err
				return written * r.channels, err
			}
		}
		if r.cur >= r.pulled {
			r.err = io.EOF
			break
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		written++
		r.pos += r.step
	}

	if written == 0 && r.err != nil {
		return 0, r.err
	}
	return written * r.channels, nil
}

func (r *Resampler) prime() error {
	ok, err := r.next(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.hist[0], r.hist[1])
	for i := 2; i < 4; i++ {
		if ok, err = r.next(r.hist[i]); err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
	}
	r.primed = true
	return nil
}

func (r *Resampler) shift() error {
	h0 := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = h0
	r.cur++

	ok, err := r.next(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	return nil
}

// next copies one source frame into dst. It returns false once the source
// is exhausted.
func (r *Resampler) next(dst []float32) (bool, error) {
	empty := 0
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case err != nil:
			return false, fmt.Errorf("resampler: %w", err)
		case n == 0:
			if empty++; empty >= maxEmptyReads {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if r.pulled == 0 {
			copy(r.state, dst)
		}
		for c := range dst {
			dst[c] = 0.5*dst[c] + 0.5*r.state[c]
			r.state[c] = dst[c]
		}
	}
	r.pulled++

	return true, nil
}
