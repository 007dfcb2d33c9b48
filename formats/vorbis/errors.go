// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrNotVorbis wraps failures reading the Ogg Vorbis headers
	ErrNotVorbis = errors.New("not an Ogg Vorbis stream")
)
