// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	// ErrAlreadyStarted is returned by Start on an engine that was started before
	ErrAlreadyStarted = errors.New("engine already started")

	// ErrNilSink is returned by Start without a sink
	ErrNilSink = errors.New("engine started without a sink")

	// ErrInvalidConfig wraps configuration errors reported by engines
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
