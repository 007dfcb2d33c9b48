// SPDX-License-Identifier: EPL-2.0

// Package dispatch moves engine deliveries onto the host's execution context.
//
// The engine calls OnDelivery on whatever goroutine or native thread it owns.
// The dispatcher copies the frame right away, tags the copy with the current
// registry generation and posts it to an Executor. When the task runs on the
// host context it is dropped if the generation moved on in the meantime, so a
// replaced or unregistered callback never sees another buffer.
package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/frame"
	"github.com/symboxtra/SplitSound/marshal"
	"github.com/symboxtra/SplitSound/registry"
)

// Stats counts what happened to deliveries.
type Stats struct {
	Delivered uint64 // frames handed to OnDelivery
	Invoked   uint64 // callback invocations that returned normally
	Skipped   uint64 // frames dropped because no callback was registered
	Stale     uint64 // queued frames dropped after a replacement or unregister
	Panics    uint64 // invocations that panicked
	Rejected  uint64 // frames the executor refused
}

func (s Stats) String() string {
	return fmt.Sprintf("delivered=%d invoked=%d skipped=%d stale=%d panics=%d rejected=%d",
		s.Delivered, s.Invoked, s.Skipped, s.Stale, s.Panics, s.Rejected)
}

// Dispatcher connects an engine to the registered callback.
type Dispatcher struct {
	reg    *registry.Registry
	exec   Executor
	logger *zap.Logger

	postMu sync.Mutex
	seq    uint64

	delivered atomic.Uint64
	invoked   atomic.Uint64
	skipped   atomic.Uint64
	stale     atomic.Uint64
	panics    atomic.Uint64
	rejected  atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher that invokes the callbacks held by reg on exec.
func New(reg *registry.Registry, exec Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reg:    reg,
		exec:   exec,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type task struct {
	handle *registry.Handle
	gen    uint64
	seq    uint64
	data   marshal.Sequence
}

// OnDelivery accepts one frame from the engine. It may be called from any
// goroutine and returns once the frame is copied; v is not used afterwards.
func (d *Dispatcher) OnDelivery(v frame.View) {
	d.delivered.Add(1)

	h, gen, ok := d.reg.Current()
	if !ok {
		d.skipped.Add(1)
		d.logger.Debug("frame skipped, no callback registered", zap.Int("count", v.Len()))
		return
	}

	t := &task{handle: h, gen: gen, data: marshal.Marshal(v)}

	d.postMu.Lock()
	defer d.postMu.Unlock()

	d.seq++
	t.seq = d.seq
	if !d.exec.Post(func() { d.run(t) }) {
		d.rejected.Add(1)
		d.logger.Debug("frame rejected",
			zap.Uint64("seq", t.seq),
			zap.Uint64("generation", gen),
			zap.Error(ErrExecutorClosed),
		)
	}
}

// Deliver implements engine.Sink.
func (d *Dispatcher) Deliver(v frame.View) { d.OnDelivery(v) }

// run executes on the host context.
func (d *Dispatcher) run(t *task) {
	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
			d.logger.Error("callback panicked",
				zap.Any("panic", r),
				zap.Stringer("handle", t.handle.ID()),
				zap.Uint64("generation", t.gen),
				zap.Uint64("seq", t.seq),
				zap.Stack("stack"),
			)
		}
	}()

	if cur := d.reg.Generation(); cur != t.gen {
		d.dropStale(t, cur)
		return
	}
	if !t.handle.Invoke(t.data.Samples, t.data.Count) {
		d.dropStale(t, d.reg.Generation())
		return
	}
	d.invoked.Add(1)
}

func (d *Dispatcher) dropStale(t *task, current uint64) {
	d.stale.Add(1)
	d.logger.Debug("frame dropped",
		zap.Uint64("seq", t.seq),
		zap.Uint64("generation", t.gen),
		zap.Uint64("current", current),
		zap.Uint32("count", t.data.Count),
		zap.Error(ErrStaleDelivery),
	)
}

// Stats returns a snapshot of the delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Invoked:   d.invoked.Load(),
		Skipped:   d.skipped.Load(),
		Stale:     d.stale.Load(),
		Panics:    d.panics.Load(),
		Rejected:  d.rejected.Load(),
	}
}
