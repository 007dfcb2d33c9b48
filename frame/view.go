// SPDX-License-Identifier: EPL-2.0

// Package frame describes sample buffers handed over by an acquisition engine.
//
// A View never owns its memory. The engine that produced it may reuse or free
// the backing storage as soon as the delivering call returns, so consumers
// must copy what they need (see package marshal) before returning.
package frame

import "unsafe"

// View is a borrowed run of interleaved float32 samples.
type View struct {
	samples []float32
}

// Of wraps samples without copying them. Engines must not deliver more than
// math.MaxUint32 samples in one view.
func Of(samples []float32) View {
	return View{samples: samples}
}

// FromPointer wraps count samples starting at p. It is meant for engines
// that receive buffers from C code. A nil p yields an empty view.
func FromPointer(p *float32, count uint32) View {
	if p == nil || count == 0 {
		return View{}
	}
	return View{samples: unsafe.Slice(p, count)}
}

// Len returns the number of samples in the view.
func (v View) Len() int { return len(v.samples) }

// Count returns the number of samples as the unsigned count handed to callbacks.
func (v View) Count() uint32 { return uint32(len(v.samples)) }

// At returns the i-th sample. It panics when i is out of range.
func (v View) At(i int) float32 { return v.samples[i] }

// Empty reports whether the view holds no samples.
func (v View) Empty() bool { return len(v.samples) == 0 }

// Borrow exposes the underlying samples. The slice is only valid until the
// delivering call returns and must not be retained or modified.
func (v View) Borrow() []float32 { return v.samples }
