// SPDX-License-Identifier: EPL-2.0

package marshal

import "errors"

var (
	// ErrChannelLayout indicates the sample count is not a multiple of the channel count
	ErrChannelLayout = errors.New("sample count must be a multiple of channels")

	// ErrChannelRange indicates a channel index outside the layout
	ErrChannelRange = errors.New("channel index out of range")
)
