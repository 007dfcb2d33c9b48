// SPDX-License-Identifier: EPL-2.0

package registry

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle identifies one registered callback.
//
// A handle is retired when it is replaced or unregistered. Its release hook
// runs exactly once, after it is retired and every invocation that was
// already running against it has returned.
type Handle struct {
	id     uuid.UUID
	gen    uint64
	recv   Receiver
	closer io.Closer
	logger *zap.Logger

	mu      sync.Mutex
	holders int
	retired bool
	freed   bool
}

func newHandle(gen uint64, recv Receiver, closer io.Closer, logger *zap.Logger) *Handle {
	return &Handle{
		id:     uuid.New(),
		gen:    gen,
		recv:   recv,
		closer: closer,
		logger: logger,
	}
}

// ID returns the handle's unique id.
func (h *Handle) ID() uuid.UUID { return h.id }

// Generation returns the registry generation the handle was installed at.
func (h *Handle) Generation() uint64 { return h.gen }

// Retired reports whether the handle has been replaced or unregistered.
func (h *Handle) Retired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.retired
}

// Invoke calls the callback with samples unless the handle is retired.
// It reports whether the callback ran. A panic in the callback propagates
// to the caller after the in-flight hold is dropped.
func (h *Handle) Invoke(samples []float64, count uint32) bool {
	if !h.acquire() {
		return false
	}
	defer h.done()

	h.recv.Receive(samples, count)

	return true
}

func (h *Handle) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.retired {
		return false
	}
	h.holders++

	return true
}

func (h *Handle) done() {
	h.mu.Lock()
	h.holders--
	free := h.shouldFree()
	h.mu.Unlock()

	if free {
		h.free()
	}
}

// retire marks the handle as no longer current. It returns true when the
// caller must run free, i.e. nothing holds the handle anymore.
func (h *Handle) retire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.retired = true

	return h.shouldFree()
}

// shouldFree must be called with mu held.
func (h *Handle) shouldFree() bool {
	if h.retired && h.holders == 0 && !h.freed {
		h.freed = true
		return true
	}
	return false
}

func (h *Handle) free() {
	if h.closer == nil {
		return
	}
	if err := h.closer.Close(); err != nil {
		h.logger.Warn("callback release failed",
			zap.Stringer("handle", h.id),
			zap.Uint64("generation", h.gen),
			zap.Error(err),
		)
	}
}
