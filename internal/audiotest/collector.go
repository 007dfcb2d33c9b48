// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"slices"
	"sync"
	"time"
)

// Call is one recorded callback invocation.
type Call struct {
	Samples []float64
	Count   uint32
}

// Collector records callback invocations. Receive is safe for concurrent
// use, so a collector can sit behind any executor.
type Collector struct {
	mu      sync.Mutex
	calls   []Call
	changed chan struct{}
	closed  int
}

// Receive records one invocation, keeping a private copy of samples.
func (c *Collector) Receive(samples []float64, count uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Samples: slices.Clone(samples), Count: count})
	if c.changed != nil {
		close(c.changed)
		c.changed = nil
	}
}

// Close counts releases of the collector's handle.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed++
	return nil
}

// Closed returns how many times Close ran.
func (c *Collector) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// Calls returns a snapshot of the recorded invocations.
func (c *Collector) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.calls)
}

// Len returns the number of recorded invocations.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.calls)
}

// Counts returns the count argument of every invocation in order.
func (c *Collector) Counts() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]uint32, len(c.calls))
	for i, call := range c.calls {
		out[i] = call.Count
	}
	return out
}

// WaitFor blocks until at least n invocations were recorded or timeout
// elapses, and reports whether n was reached.
func (c *Collector) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		c.mu.Lock()
		if len(c.calls) >= n {
			c.mu.Unlock()
			return true
		}
		if c.changed == nil {
			c.changed = make(chan struct{})
		}
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
		case <-deadline.C:
			return false
		}
	}
}
