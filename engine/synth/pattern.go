// SPDX-License-Identifier: EPL-2.0

// Package synth holds generator engines that need no device or file.
package synth

import (
	"context"
	"time"

	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/frame"
)

// DefaultPattern is the self test sequence. Pattern delivers growing
// prefixes of it, from length 0 up to len-1.
var DefaultPattern = []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 3, 4, 5, 6}

// Pattern delivers values[:0], values[:1], ... values[:len-1] from its own
// goroutine, all out of one backing array, then stops.
type Pattern struct {
	values   []float32
	interval time.Duration
	pump     engine.Pump
}

var _ engine.Engine = (*Pattern)(nil)

// NewPattern creates a pattern engine over values, or DefaultPattern when
// values is empty. A positive interval spaces the deliveries.
func NewPattern(values []float32, interval time.Duration) *Pattern {
	if len(values) == 0 {
		values = DefaultPattern
	}
	return &Pattern{values: values, interval: interval}
}

// Deliveries returns how many buffers the engine produces.
func (p *Pattern) Deliveries() int { return len(p.values) }

// Start implements engine.Engine.
func (p *Pattern) Start(ctx context.Context, sink engine.Sink) error {
	if sink == nil {
		return engine.ErrNilSink
	}
	return p.pump.Start(ctx, func(ctx context.Context) error {
		for i := range p.values {
			if err := ctx.Err(); err != nil {
				return err
			}
			sink.Deliver(frame.Of(p.values[:i]))

			if p.interval > 0 {
				select {
				case <-time.After(p.interval):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})
}

// Stop implements engine.Engine.
func (p *Pattern) Stop() error { return p.pump.Stop() }

// Done is closed after the last delivery.
func (p *Pattern) Done() <-chan struct{} { return p.pump.Done() }
