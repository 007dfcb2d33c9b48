// SPDX-License-Identifier: EPL-2.0

package registry

import "errors"

var (
	// ErrInvalidArgument indicates a registration with a value that cannot be invoked
	ErrInvalidArgument = errors.New("invalid argument: callback is not callable")
)
