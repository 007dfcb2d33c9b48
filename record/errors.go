// SPDX-License-Identifier: EPL-2.0

package record

import "errors"

var (
	// ErrInvalidFormat is returned for a non-positive rate or channel count
	ErrInvalidFormat = errors.New("record: invalid sample format")

	// ErrPartialFrame is reported when a delivery does not hold whole frames
	ErrPartialFrame = errors.New("record: delivery is not a whole number of frames")
)
