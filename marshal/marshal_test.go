// SPDX-License-Identifier: EPL-2.0

package marshal

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/symboxtra/SplitSound/frame"
)

func TestMarshal_ExactValues(t *testing.T) {
	t.Parallel()

	src := []float32{
		0, -0, 1, -1, 0.1, -0.333333,
		math.SmallestNonzeroFloat32, math.MaxFloat32, -math.MaxFloat32,
		float32(math.Inf(1)), float32(math.Inf(-1)),
	}

	seq := Marshal(frame.Of(src))

	if seq.Count != uint32(len(src)) {
		t.Fatalf("Count = %d, want %d", seq.Count, len(src))
	}
	if seq.Len() != len(src) {
		t.Fatalf("Len() = %d, want %d", seq.Len(), len(src))
	}

	for i, s := range src {
		got := seq.Samples[i]
		// Narrowing back must be lossless and the widened value identical
		if float32(got) != s || got != float64(s) {
			t.Errorf("Samples[%d] = %v, want %v", i, got, s)
		}
		if math.Signbit(got) != math.Signbit(float64(s)) {
			t.Errorf("Samples[%d] sign = %v, want %v", i, math.Signbit(got), math.Signbit(float64(s)))
		}
	}
}

func TestMarshal_NaN(t *testing.T) {
	t.Parallel()

	seq := Marshal(frame.Of([]float32{float32(math.NaN())}))
	if !math.IsNaN(seq.Samples[0]) {
		t.Errorf("Samples[0] = %v, want NaN", seq.Samples[0])
	}
}

func TestMarshal_RandomBuffers(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 4, 6, 127, 512, 4096} {
		src := make([]float32, n)
		for i := range src {
			src[i] = rng.Float32()*2 - 1
		}

		seq := Marshal(frame.Of(src))
		if int(seq.Count) != n {
			t.Fatalf("n=%d: Count = %d", n, seq.Count)
		}
		for i := range src {
			if seq.Samples[i] != float64(src[i]) {
				t.Fatalf("n=%d: Samples[%d] = %v, want %v", n, i, seq.Samples[i], src[i])
			}
		}
	}
}

func TestMarshal_Empty(t *testing.T) {
	t.Parallel()

	for name, v := range map[string]frame.View{
		"zero view":   {},
		"empty slice": frame.Of([]float32{}),
		"nil slice":   frame.Of(nil),
	} {
		seq := Marshal(v)
		if seq.Samples == nil {
			t.Errorf("%s: Samples is nil, want empty slice", name)
		}
		if seq.Count != 0 || seq.Len() != 0 {
			t.Errorf("%s: (Count, Len) = (%d, %d), want (0, 0)", name, seq.Count, seq.Len())
		}
	}
}

func TestMarshal_DoesNotAlias(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2, 3, 4}
	seq := Marshal(frame.Of(src))

	// The engine reclaims its buffer after delivery
	for i := range src {
		src[i] = -99
	}

	want := []float64{1, 2, 3, 4}
	for i := range want {
		if seq.Samples[i] != want[i] {
			t.Errorf("Samples[%d] = %v after source mutation, want %v", i, seq.Samples[i], want[i])
		}
	}
}

func TestMarshalInto_ReusesCapacity(t *testing.T) {
	t.Parallel()

	dst := make([]float64, 0, 8)
	seq := MarshalInto(dst, frame.Of([]float32{1, 2, 3}))

	if &seq.Samples[0] != &dst[:1][0] {
		t.Error("MarshalInto() did not reuse dst backing array")
	}
	if seq.Count != 3 {
		t.Errorf("Count = %d, want 3", seq.Count)
	}

	// Too small: a fresh array is allocated
	small := make([]float64, 0, 1)
	seq = MarshalInto(small, frame.Of([]float32{1, 2, 3}))
	if cap(seq.Samples) < 3 {
		t.Errorf("cap(Samples) = %d, want >= 3", cap(seq.Samples))
	}
}

func TestMarshalInto_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := make([]float32, 1024)
	dst := make([]float64, 1024)
	v := frame.Of(src)

	allocs := testing.AllocsPerRun(100, func() {
		_ = MarshalInto(dst, v)
	})

	if allocs > 0 {
		t.Errorf("MarshalInto allocated %v times, want 0", allocs)
	}
}

func TestSequence_Channel(t *testing.T) {
	t.Parallel()

	seq := Marshal(frame.Of([]float32{1, -1, 2, -2, 3, -3}))

	tests := []struct {
		name     string
		ch       int
		channels int
		want     []float64
		wantErr  error
	}{
		{name: "left", ch: 0, channels: 2, want: []float64{1, 2, 3}},
		{name: "right", ch: 1, channels: 2, want: []float64{-1, -2, -3}},
		{name: "mono", ch: 0, channels: 1, want: []float64{1, -1, 2, -2, 3, -3}},
		{name: "bad layout", ch: 0, channels: 4, wantErr: ErrChannelLayout},
		{name: "zero channels", ch: 0, channels: 0, wantErr: ErrChannelLayout},
		{name: "channel out of range", ch: 2, channels: 2, wantErr: ErrChannelRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := seq.Channel(tt.ch, tt.channels)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Channel() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Channel() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSequence_Deinterleave(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 3, 6} {
		frames := 5
		src := make([]float32, frames*channels)
		for f := range frames {
			for c := range channels {
				src[f*channels+c] = float32(c*100 + f)
			}
		}

		out, err := Marshal(frame.Of(src)).Deinterleave(channels)
		if err != nil {
			t.Fatalf("channels=%d: Deinterleave() error = %v", channels, err)
		}
		if len(out) != channels {
			t.Fatalf("channels=%d: got %d planes", channels, len(out))
		}
		for c := range channels {
			for f := range frames {
				if want := float64(c*100 + f); out[c][f] != want {
					t.Errorf("channels=%d: out[%d][%d] = %v, want %v", channels, c, f, out[c][f], want)
				}
			}
		}
	}

	if _, err := Marshal(frame.Of([]float32{1, 2, 3})).Deinterleave(2); !errors.Is(err, ErrChannelLayout) {
		t.Errorf("Deinterleave() error = %v, want ErrChannelLayout", err)
	}
}

func BenchmarkMarshal(b *testing.B) {
	src := make([]float32, 1024)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) * 0.1))
	}
	v := frame.Of(src)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_ = Marshal(v)
	}
}

func BenchmarkMarshalInto(b *testing.B) {
	src := make([]float32, 1024)
	dst := make([]float64, 1024)
	v := frame.Of(src)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_ = MarshalInto(dst, v)
	}
}
