// SPDX-License-Identifier: EPL-2.0

// Package meter measures the level of delivered sample buffers.
package meter

import (
	"math"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// FloorDBFS is reported for silence.
const FloorDBFS = -120.0

// Level is the loudness of one buffer or channel.
type Level struct {
	RMS      float64
	Peak     float64
	RMSdBFS  float64
	PeakdBFS float64
}

// Measure computes the level of samples. It allocates a scratch buffer; use
// a Meter to measure repeatedly.
func Measure(samples []float64) Level {
	return measure(samples, make([]float64, len(samples)))
}

func measure(samples, sq []float64) Level {
	if len(samples) == 0 {
		return Level{RMSdBFS: FloorDBFS, PeakdBFS: FloorDBFS}
	}

	sq = sq[:len(samples)]
	vecmath.MulBlock(sq, samples, samples)

	var sum, peak float64
	for i, v := range sq {
		sum += v
		if a := math.Abs(samples[i]); a > peak {
			peak = a
		}
	}

	rms := math.Sqrt(sum / float64(len(samples)))
	return Level{RMS: rms, Peak: peak, RMSdBFS: DBFS(rms), PeakdBFS: DBFS(peak)}
}

// DBFS converts a linear amplitude to decibels relative to full scale,
// clamped at FloorDBFS.
func DBFS(v float64) float64 {
	if v <= 0 {
		return FloorDBFS
	}
	return max(20*math.Log10(v), FloorDBFS)
}

// Meter tracks the level of every delivery, optionally per channel of an
// interleaved stream. It implements registry.Receiver, so it can be
// registered as the callback directly.
type Meter struct {
	mu       sync.Mutex
	channels int
	levels   []Level
	peaks    []float64
	split    []float64
	sq       []float64
	count    uint64
}

// New creates a meter for interleaved buffers of channels channels. Values
// below 1 mean a single channel.
func New(channels int) *Meter {
	channels = max(channels, 1)
	m := &Meter{
		channels: channels,
		levels:   make([]Level, channels),
		peaks:    make([]float64, channels),
	}
	for i := range m.levels {
		m.levels[i] = Level{RMSdBFS: FloorDBFS, PeakdBFS: FloorDBFS}
	}
	return m
}

// Receive measures one delivery. Trailing values that do not fill a whole
// frame are ignored.
func (m *Meter) Receive(samples []float64, count uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.count++
	samples = samples[:min(int(count), len(samples))]
	frames := len(samples) / m.channels

	if cap(m.sq) < frames*m.channels {
		m.sq = make([]float64, frames*m.channels)
	}
	if m.channels == 1 {
		m.update(0, samples)
		return
	}

	if cap(m.split) < frames {
		m.split = make([]float64, frames)
	}
	ch := m.split[:frames]
	for c := range m.channels {
		for f := range frames {
			ch[f] = samples[f*m.channels+c]
		}
		m.update(c, ch)
	}
}

func (m *Meter) update(ch int, samples []float64) {
	l := measure(samples, m.sq)
	m.levels[ch] = l
	m.peaks[ch] = max(m.peaks[ch], l.Peak)
}

// Channels returns the channel count the meter splits by.
func (m *Meter) Channels() int { return m.channels }

// Levels returns the level of the last delivery per channel.
func (m *Meter) Levels() []Level {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Level, len(m.levels))
	copy(out, m.levels)
	return out
}

// Peak returns the highest peak seen on ch since the last Reset.
func (m *Meter) Peak(ch int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch < 0 || ch >= len(m.peaks) {
		return 0
	}
	return m.peaks[ch]
}

// Deliveries returns how many buffers were measured.
func (m *Meter) Deliveries() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.count
}

// Reset clears the held peaks.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.peaks)
}
