// SPDX-License-Identifier: EPL-2.0

package splitsound

import (
	"errors"

	"github.com/symboxtra/SplitSound/registry"
)

var (
	// ErrInvalidArgument is returned by SetCallback for a value that cannot be called
	ErrInvalidArgument = registry.ErrInvalidArgument

	// ErrEngineAttached is returned by Attach while another engine is attached
	ErrEngineAttached = errors.New("an engine is already attached")

	// ErrBridgeClosed is returned by operations on a closed bridge
	ErrBridgeClosed = errors.New("bridge closed")
)
