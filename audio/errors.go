// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnknownFormat is returned when no decoder is registered for a format
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrInvalidRate is returned for a non-positive sample rate
	ErrInvalidRate = errors.New("sample rate must be positive")
)
