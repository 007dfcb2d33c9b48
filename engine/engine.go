// SPDX-License-Identifier: EPL-2.0

// Package engine defines the contract between acquisition engines and the
// capture bridge, plus the plumbing shared by the bundled engines.
//
// An engine produces float32 buffers on a goroutine or native thread it owns
// and hands each one to a Sink. The frame.View passed to Deliver is only
// valid until Deliver returns; engines are free to reuse the memory for the
// next buffer.
package engine

import (
	"context"

	"github.com/symboxtra/SplitSound/frame"
)

// Sink receives buffers from an engine. Deliver may be called from any
// goroutine but never concurrently by one engine.
type Sink interface {
	Deliver(v frame.View)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(v frame.View)

// Deliver implements Sink.
func (f SinkFunc) Deliver(v frame.View) { f(v) }

// Engine is an acquisition engine.
//
// Start begins producing buffers into sink and returns without waiting for
// the first one. Production ends when ctx is done, when Stop is called or
// when the engine runs out of input. Stop waits until the engine no longer
// calls the sink. Engines are single use.
type Engine interface {
	Start(ctx context.Context, sink Sink) error
	Stop() error
}
