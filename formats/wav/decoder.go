// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/formats/internal/pcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode reads the RIFF header and returns a source positioned at the first
// sample. Non seekable readers are buffered in memory. If r is an
// io.Closer it is closed with the source.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrOnlyPCMSupported, dec.WavAudioFormat)
	}
	// 8-bit WAV is unsigned
	if dec.BitDepth == 8 {
		return nil, fmt.Errorf("%w: 8-bit", ErrOnlyPCMSupported)
	}

	closer, _ := r.(io.Closer)
	format := &goaudio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)}

	src, err := pcm.NewSource(dec, format, int(dec.BitDepth), closer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOnlyPCMSupported, err)
	}
	return src, nil
}
