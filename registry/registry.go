// SPDX-License-Identifier: EPL-2.0

// Package registry holds the single callback that receives delivered samples.
//
// The registry is a one-slot container guarded by a mutex. Every successful
// Register and every effective Unregister bumps a generation counter, which
// the dispatcher uses to discard deliveries addressed to a callback that is
// no longer current.
package registry

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Callback receives one delivered buffer: the samples and their count.
type Callback func(samples []float64, count uint32)

// Receive implements Receiver.
func (f Callback) Receive(samples []float64, count uint32) { f(samples, count) }

// Receiver is implemented by values that can be registered directly.
// If the value also implements io.Closer, Close is called once the handle
// is released.
type Receiver interface {
	Receive(samples []float64, count uint32)
}

// Func pairs a callback with a release hook that runs when its handle is
// released. release may be nil.
func Func(fn func(samples []float64, count uint32), release func() error) Receiver {
	return &funcReceiver{fn: fn, release: release}
}

type funcReceiver struct {
	fn      func([]float64, uint32)
	release func() error
}

func (r *funcReceiver) Receive(samples []float64, count uint32) { r.fn(samples, count) }

func (r *funcReceiver) Close() error {
	if r.release == nil {
		return nil
	}
	return r.release()
}

// Registry is the single callback slot.
type Registry struct {
	// swap serializes Register and Unregister, mu guards the slot.
	swap    sync.Mutex
	mu      sync.Mutex
	current *Handle
	gen     uint64

	logger *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs callable as the only callback, releasing the previous
// one. callable must be a Callback, a func([]float64, uint32) or a Receiver.
// Any other value fails with ErrInvalidArgument and leaves the registry
// untouched.
//
// The previous callback is released before the new one is installed; until
// then the slot is empty. If an invocation still holds the previous callback,
// its release waits for that invocation instead. Release hooks must not
// register or unregister.
func (r *Registry) Register(callable any) (*Handle, error) {
	recv, err := adapt(callable)
	if err != nil {
		return nil, err
	}
	closer, _ := recv.(io.Closer)

	r.swap.Lock()
	defer r.swap.Unlock()

	r.mu.Lock()
	old := r.current
	freeOld := false
	if old != nil {
		freeOld = old.retire()
		r.current = nil
	}
	r.gen++
	h := newHandle(r.gen, recv, closer, r.logger)
	r.mu.Unlock()

	if freeOld {
		old.free()
	}

	r.mu.Lock()
	r.current = h
	r.mu.Unlock()

	fields := []zap.Field{zap.Stringer("handle", h.id), zap.Uint64("generation", h.gen)}
	if old != nil {
		fields = append(fields, zap.Stringer("replaced", old.id))
	}
	r.logger.Info("callback registered", fields...)

	return h, nil
}

// Current returns the active handle and its generation.
func (r *Registry) Current() (*Handle, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil, r.gen, false
	}
	return r.current, r.gen, true
}

// Generation returns the current generation.
func (r *Registry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.gen
}

// Unregister releases the current callback and leaves the registry empty.
// Calling it on an empty registry does nothing.
func (r *Registry) Unregister() {
	r.swap.Lock()
	defer r.swap.Unlock()

	r.mu.Lock()
	old := r.current
	if old == nil {
		r.mu.Unlock()
		return
	}
	r.current = nil
	r.gen++
	gen := r.gen
	freeOld := old.retire()
	r.mu.Unlock()

	if freeOld {
		old.free()
	}

	r.logger.Info("callback unregistered", zap.Stringer("handle", old.id), zap.Uint64("generation", gen))
}

func adapt(callable any) (Receiver, error) {
	if isNil(callable) {
		return nil, fmt.Errorf("%w: got nil", ErrInvalidArgument)
	}

	switch c := callable.(type) {
	case Callback:
		return c, nil
	case func([]float64, uint32):
		return Callback(c), nil
	case Receiver:
		return c, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidArgument, callable)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
