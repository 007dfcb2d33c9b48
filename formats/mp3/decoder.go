// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/symboxtra/SplitSound/audio"
)

// go-mp3 always produces 16-bit little endian stereo.
const (
	channels   = 2
	frameBytes = 2 * channels
)

// pcmReader is the part of gomp3.Decoder the source uses.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec     pcmReader
	rate    int
	buf     []byte
	pending int // bytes of an incomplete frame kept at the start of buf
	closer  io.Closer
}

func newSource(dec pcmReader, closer io.Closer) *source {
	return &source{dec: dec, rate: dec.SampleRate(), closer: closer}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return 4096 }

func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ReadSamples returns whole stereo frames only; a frame split across two
// decoder reads is held back until it is complete.
func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / channels
	if frames == 0 {
		return 0, nil
	}

	need := frames * frameBytes
	if cap(s.buf) < need {
		buf := make([]byte, need)
		copy(buf, s.buf[:s.pending])
		s.buf = buf
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.pending:])
	total := s.pending + n
	usable := total - total%frameBytes

	for i := 0; i < usable/2; i++ {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
	}
	s.pending = copy(s.buf, s.buf[usable:total])

	if err != nil && !errors.Is(err, io.EOF) {
		return usable / 2, fmt.Errorf("mp3: %w", err)
	}
	return usable / 2, err
}

type Decoder struct{}

// Decode reads the first frame header of r. If r is an io.Closer it is
// closed with the source.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	closer, _ := r.(io.Closer)
	return newSource(dec, closer), nil
}
