// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrOnlyPCMSupported     = errors.New("only 16, 24 and 32-bit integer PCM supported")

	// ErrWriterClosed is returned when writing to a closed Writer
	ErrWriterClosed = errors.New("WAV writer closed")
)
