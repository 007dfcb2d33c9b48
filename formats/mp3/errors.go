// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	// ErrNotMP3 wraps decoder failures on the stream header
	ErrNotMP3 = errors.New("not an MP3 stream")
)
