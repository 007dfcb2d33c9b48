// SPDX-License-Identifier: EPL-2.0

package dispatch

import "errors"

var (
	// ErrStaleDelivery marks a queued delivery whose callback was replaced or
	// unregistered before it ran. It only appears in logs.
	ErrStaleDelivery = errors.New("stale delivery: callback generation changed")

	// ErrExecutorClosed marks a delivery the executor refused.
	ErrExecutorClosed = errors.New("executor closed")
)
