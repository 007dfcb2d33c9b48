// SPDX-License-Identifier: EPL-2.0

package hostloop

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when another goroutine is running or draining the loop
	ErrAlreadyRunning = errors.New("host loop already running")

	// ErrClosed is returned when work is posted to a closed loop
	ErrClosed = errors.New("host loop closed")
)
