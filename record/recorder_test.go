// SPDX-License-Identifier: EPL-2.0

package record

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/formats/wav"
	"github.com/symboxtra/SplitSound/registry"
	"github.com/symboxtra/SplitSound/utils"
)

func decode(t *testing.T, r io.Reader) (audio.Source, []float32) {
	t.Helper()

	src, err := wav.Decoder{}.Decode(r)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var out []float32
	buf := make([]float32, 64)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	src.Close()
	return src, out
}

func expected(in ...float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(utils.Float64ToInt16(v)) / 32768
	}
	return out
}

func equal(t *testing.T, got, want []float32) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRecorder_Buffered(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r, err := New(&out, 8000, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r.Receive([]float64{0, 0.5, -0.5, 1}, 4)
	r.Receive([]float64{}, 0)
	r.Receive([]float64{-1, 0.25, 9, 9}, 2)

	if out.Len() != 0 {
		t.Error("buffered recorder wrote before Close")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if r.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", r.Frames())
	}

	src, got := decode(t, &out)
	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz x%d", src.SampleRate(), src.Channels())
	}
	equal(t, got, expected(0, 0.5, -0.5, 1, -1, 0.25))
}

func TestRecorder_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	r, err := Create(path, 16000, 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for range 3 {
		r.Receive([]float64{0.1, -0.1}, 2)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_, got := decode(t, f)
	equal(t, got, expected(0.1, -0.1, 0.1, -0.1, 0.1, -0.1))
}

func TestRecorder_IgnoresAfterClose(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r, _ := New(&out, 8000, 1)
	r.Receive([]float64{0.5}, 1)
	r.Close()
	r.Receive([]float64{0.5}, 1)

	if r.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", r.Frames())
	}
}

func TestRecorder_PartialFrame(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	var out bytes.Buffer
	r, _ := New(&out, 8000, 2, WithLogger(zap.New(core)))

	r.Receive([]float64{0.5, 0.5, 0.5}, 3)
	r.Receive([]float64{0.5, 0.5}, 2)

	if !errors.Is(r.Err(), ErrPartialFrame) {
		t.Errorf("Err() = %v, want ErrPartialFrame", r.Err())
	}
	if err := r.Close(); !errors.Is(err, ErrPartialFrame) {
		t.Errorf("Close() error = %v, want ErrPartialFrame", err)
	}
	if r.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0 after a failure", r.Frames())
	}
	if logs.FilterMessage("recording failed").Len() != 1 {
		t.Error("failure not logged once")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorder_WriteError(t *testing.T) {
	t.Parallel()

	r, _ := New(failWriter{}, 8000, 1)
	r.Receive([]float64{0.5}, 1)

	if err := r.Close(); err == nil {
		t.Error("Close() error = nil, want the write failure")
	}
}

func TestRecorder_InvalidFormat(t *testing.T) {
	t.Parallel()

	if _, err := New(io.Discard, 0, 1); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("New() error = %v, want ErrInvalidFormat", err)
	}
	if _, err := Create(filepath.Join(t.TempDir(), "x.wav"), 8000, 0); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Create() error = %v, want ErrInvalidFormat", err)
	}
	if _, err := Create(filepath.Join(t.TempDir(), "missing", "x.wav"), 8000, 1); err == nil {
		t.Error("Create() in a missing directory succeeded")
	}
}

func TestRecorder_ClosedOnRelease(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r, _ := New(&out, 8000, 1)

	reg := registry.New()
	h, err := reg.Register(r)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	h.Invoke([]float64{0.25}, 1)

	reg.Unregister()
	if out.Len() != 44+2 {
		t.Errorf("file size after release = %d, want 46", out.Len())
	}
}
