// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/frame"
)

type collect struct {
	mu     sync.Mutex
	copies [][]float32
}

func (c *collect) Deliver(v frame.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.copies = append(c.copies, append([]float32{}, v.Borrow()...))
}

func (c *collect) all() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []float32
	for _, b := range c.copies {
		out = append(out, b...)
	}
	return out
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not finish")
	}
}

func TestPattern_DeliversPrefixes(t *testing.T) {
	t.Parallel()

	p := NewPattern(nil, 0)
	sink := &collect{}
	if err := p.Start(context.Background(), sink); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, p.Done())

	if len(sink.copies) != 15 || p.Deliveries() != 15 {
		t.Fatalf("delivered %d buffers, want 15", len(sink.copies))
	}
	for n, got := range sink.copies {
		if len(got) != n {
			t.Errorf("delivery %d len = %d, want %d", n, len(got), n)
			continue
		}
		for i, v := range got {
			if v != DefaultPattern[i] {
				t.Errorf("delivery %d[%d] = %v, want %v", n, i, v, DefaultPattern[i])
			}
		}
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestPattern_StopInterrupts(t *testing.T) {
	t.Parallel()

	p := NewPattern([]float32{1, 2, 3, 4}, time.Hour)
	sink := &collect{}
	p.Start(context.Background(), sink)

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if n := len(sink.copies); n > 1 {
		t.Errorf("delivered %d buffers, want at most 1", n)
	}
}

func TestPattern_Errors(t *testing.T) {
	t.Parallel()

	p := NewPattern(nil, 0)
	if err := p.Start(context.Background(), nil); !errors.Is(err, engine.ErrNilSink) {
		t.Errorf("Start(nil) error = %v, want ErrNilSink", err)
	}
	p.Start(context.Background(), &collect{})
	if err := p.Start(context.Background(), &collect{}); !errors.Is(err, engine.ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	p.Stop()
}

func TestSine_Waveform(t *testing.T) {
	t.Parallel()

	s, err := NewSine(SineConfig{
		Freq:         1000,
		Amplitude:    0.5,
		SampleRate:   8000,
		Channels:     2,
		Duration:     100 * time.Millisecond,
		BufferFrames: 256,
	})
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}

	sink := &collect{}
	s.Start(context.Background(), sink)
	waitDone(t, s.Done())

	got := sink.all()
	if len(got) != 1600 {
		t.Fatalf("delivered %d samples, want 1600", len(got))
	}
	if len(sink.copies) != 4 {
		t.Errorf("delivered %d buffers, want 4", len(sink.copies))
	}

	for f := range 800 {
		want := 0.5 * math.Sin(2*math.Pi*1000*float64(f)/8000)
		l, r := got[2*f], got[2*f+1]
		if l != r {
			t.Fatalf("frame %d channels differ: %v != %v", f, l, r)
		}
		if math.Abs(float64(l)-want) > 1e-4 {
			t.Fatalf("frame %d = %v, want %v", f, l, want)
		}
	}
}

func TestSine_EndlessUntilStop(t *testing.T) {
	t.Parallel()

	s, err := NewSine(SineConfig{Freq: 440, SampleRate: 8000, BufferFrames: 80, Realtime: true})
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}
	if s.Channels() != 1 || s.SampleRate() != 8000 {
		t.Errorf("format = %d Hz x%d", s.SampleRate(), s.Channels())
	}

	sink := &collect{}
	s.Start(context.Background(), sink)
	time.Sleep(60 * time.Millisecond)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(sink.copies) == 0 {
		t.Error("no buffers delivered")
	}
	for _, v := range sink.all() {
		if v < -1 || v > 1 {
			t.Fatalf("sample %v out of range", v)
		}
	}
}

func TestNewSine_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  SineConfig
	}{
		{name: "no frequency", cfg: SineConfig{SampleRate: 8000}},
		{name: "no rate", cfg: SineConfig{Freq: 440}},
		{name: "negative channels", cfg: SineConfig{Freq: 440, SampleRate: 8000, Channels: -1}},
		{name: "negative duration", cfg: SineConfig{Freq: 440, SampleRate: 8000, Duration: -time.Second}},
		{name: "negative buffer", cfg: SineConfig{Freq: 440, SampleRate: 8000, BufferFrames: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewSine(tt.cfg); !errors.Is(err, engine.ErrInvalidConfig) {
				t.Errorf("NewSine() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
