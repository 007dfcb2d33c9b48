// SPDX-License-Identifier: EPL-2.0

package splitsound

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/dispatch"
	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/frame"
	"github.com/symboxtra/SplitSound/registry"
)

type options struct {
	logger *zap.Logger
}

// Option configures a Bridge.
type Option func(*options)

// WithLogger sets the logger shared by the bridge's registry and
// dispatcher.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Bridge owns the callback slot and routes engine deliveries to it through
// an executor. It implements engine.Sink.
type Bridge struct {
	reg    *registry.Registry
	disp   *dispatch.Dispatcher
	logger *zap.Logger

	mu     sync.Mutex
	eng    engine.Engine
	closed bool
}

var _ engine.Sink = (*Bridge)(nil)

// New creates a bridge that runs callbacks through exec.
func New(exec dispatch.Executor, opts ...Option) *Bridge {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	reg := registry.New(registry.WithLogger(o.logger))
	return &Bridge{
		reg:    reg,
		disp:   dispatch.New(reg, exec, dispatch.WithLogger(o.logger)),
		logger: o.logger,
	}
}

// SetCallback makes callable the only receiver of deliveries, releasing
// the previous one. Deliveries queued for the previous callback are
// dropped. It fails with ErrInvalidArgument when callable is not a
// func([]float64, uint32), registry.Callback or registry.Receiver; the
// current callback then stays in place.
func (b *Bridge) SetCallback(callable any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBridgeClosed
	}
	_, err := b.reg.Register(callable)
	return err
}

// Unregister removes the callback. Deliveries made without a callback are
// skipped.
func (b *Bridge) Unregister() { b.reg.Unregister() }

// Deliver implements engine.Sink.
func (b *Bridge) Deliver(v frame.View) { b.disp.OnDelivery(v) }

// Attach starts e with the bridge as its sink. Only one engine can be
// attached at a time, including one that has run out of input; Detach it
// first.
func (b *Bridge) Attach(ctx context.Context, e engine.Engine) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBridgeClosed
	}
	if b.eng != nil {
		return ErrEngineAttached
	}
	if err := e.Start(ctx, b); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	b.eng = e
	b.logger.Info("engine attached", zap.String("engine", fmt.Sprintf("%T", e)))
	return nil
}

// Detach stops the attached engine and waits until it no longer delivers.
// Deliveries already queued still reach the callback. When Stop fails the
// engine stays attached.
func (b *Bridge) Detach() error {
	b.mu.Lock()
	e := b.eng
	b.mu.Unlock()

	if e == nil {
		return nil
	}
	if err := e.Stop(); err != nil {
		return fmt.Errorf("stop engine: %w", err)
	}

	b.mu.Lock()
	if b.eng == e {
		b.eng = nil
	}
	b.mu.Unlock()
	b.logger.Info("engine detached", zap.Stringer("stats", b.disp.Stats()))
	return nil
}

// Stats returns the delivery counters.
func (b *Bridge) Stats() dispatch.Stats { return b.disp.Stats() }

// Generation returns the callback generation, which changes on every
// SetCallback and effective Unregister.
func (b *Bridge) Generation() uint64 { return b.reg.Generation() }

// Close detaches the engine and releases the callback. Later SetCallback
// and Attach calls fail with ErrBridgeClosed.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	err := b.Detach()

	b.mu.Lock()
	b.reg.Unregister()
	b.mu.Unlock()
	return err
}
