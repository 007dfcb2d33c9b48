// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"sync"
)

// Pump runs an engine's production loop on its own goroutine and gives it
// Start/Stop semantics. The zero value is ready to use.
type Pump struct {
	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// Start launches run with a context that is cancelled by Stop or by the
// parent ctx. A run that ends because its context was cancelled counts as a
// clean stop.
func (p *Pump) Start(ctx context.Context, run func(ctx context.Context) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	done := p.doneLocked()

	go func() {
		err := run(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}

		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(done)
	}()

	return nil
}

// Stop cancels the loop and waits for it to return. It must not be called
// from inside the loop. Stopping a pump that never started does nothing.
func (p *Pump) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	return p.Err()
}

// Started reports whether Start was called.
func (p *Pump) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started
}

// Done is closed when the loop has returned.
func (p *Pump) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.doneLocked()
}

// Err returns the loop's error once Done is closed.
func (p *Pump) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

func (p *Pump) doneLocked() chan struct{} {
	if p.done == nil {
		p.done = make(chan struct{})
	}
	return p.done
}
