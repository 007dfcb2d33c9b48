// SPDX-License-Identifier: EPL-2.0

// Package hostloop provides a single-goroutine execution context.
//
// A Loop accepts tasks from any goroutine and runs them one by one, in the
// order they were posted, on the goroutine that called Run. It is the host
// side of the capture bridge: engines deliver on their own goroutines and the
// registered callback only ever runs inside the loop.
//
// Posting never blocks. The queue is unbounded; the loop applies no flow
// control to the producer.
package hostloop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loop is a FIFO task queue drained by one goroutine.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	running bool

	wake   func()
	logger *zap.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(l *zap.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithWake registers fn to be called after every accepted Post. Hosts that
// own their event loop use it to schedule a Drain. fn runs on the posting
// goroutine and must not block.
func WithWake(fn func()) Option {
	return func(lp *Loop) {
		lp.wake = fn
	}
}

// New creates an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{logger: zap.NewNop()}
	l.cond = sync.NewCond(&l.mu)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues task. It returns false once the loop is closed.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.cond.Signal()
	l.mu.Unlock()

	if l.wake != nil {
		l.wake()
	}
	return true
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

// Close stops accepting tasks. Tasks already queued still run if Run is
// active, after which Run returns nil. Close is idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.cond.Broadcast()
}

// Run executes tasks on the calling goroutine until the loop is closed and
// empty, or ctx is done. It returns ErrAlreadyRunning while another Run or a
// Drain holds the loop. On cancellation, tasks that did not run stay queued
// in order.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	stop := context.AfterFunc(ctx, func() {
		l.mu.Lock()
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	defer stop()

	l.logger.Debug("host loop started")

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed && ctx.Err() == nil {
			l.cond.Wait()
		}
		if err := ctx.Err(); err != nil {
			l.mu.Unlock()
			l.logger.Debug("host loop cancelled", zap.Error(err))
			return err
		}
		if len(l.queue) == 0 {
			// closed and drained
			l.mu.Unlock()
			l.logger.Debug("host loop closed")
			return nil
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for i, task := range batch {
			if err := ctx.Err(); err != nil {
				l.requeue(batch[i:])
				return err
			}
			l.exec(task)
		}
	}
}

// Drain runs the tasks queued at the time of the call on the calling
// goroutine and returns how many ran. Tasks posted meanwhile wait for the
// next Drain. It does nothing while Run or another Drain is active, and Run
// returns ErrAlreadyRunning until the batch is done.
func (l *Loop) Drain() int {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return 0
	}
	l.running = true
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for _, task := range batch {
		l.exec(task)
	}
	return len(batch)
}

// Flush waits until every task posted before the call has run.
func (l *Loop) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !l.Post(func() { close(done) }) {
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) requeue(rest []func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.queue = append(append(make([]func(), 0, len(rest)+len(l.queue)), rest...), l.queue...)
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("host task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	task()
}
