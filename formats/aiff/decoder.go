// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/formats/internal/pcm"
)

type Decoder struct{}

// Decode parses the COMM chunk and returns a source over the sound data.
// go-audio needs to seek, so non seekable readers are buffered in memory.
// If r is an io.Closer it is closed with the source.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	closer, _ := r.(io.Closer)
	src, err := pcm.NewSource(dec, format, int(dec.BitDepth), closer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}
	return src, nil
}
