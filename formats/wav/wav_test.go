// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/symboxtra/SplitSound/audio"
	"github.com/symboxtra/SplitSound/utils"
)

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, 5*src.Channels())
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  []int16
	}{
		{name: "mono", rate: 8000, channels: 1, samples: []int16{0, 16384, -16384, -32768, 32767, 100, -100}},
		{name: "stereo", rate: 44100, channels: 2, samples: []int16{1, -1, 2, -2, 3, -3, 1000, -1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var file bytes.Buffer
			if err := WriteWAV16(&file, tt.rate, tt.channels, tt.samples); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}

			src, err := Decoder{}.Decode(&file)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			defer src.Close()

			if src.SampleRate() != tt.rate || src.Channels() != tt.channels {
				t.Errorf("format = %d Hz x%d, want %d Hz x%d", src.SampleRate(), src.Channels(), tt.rate, tt.channels)
			}

			got := readAll(t, src)
			if len(got) != len(tt.samples) {
				t.Fatalf("decoded %d samples, want %d", len(got), len(tt.samples))
			}
			for i, s := range tt.samples {
				if want := float32(s) / 32768; got[i] != want {
					t.Errorf("sample %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestDecode_NotWav(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"text":      "this is not a riff file at all, not even close to one",
		"empty":     "",
		"aiff form": "FORM\x00\x00\x00\x20AIFFCOMM",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(strings.NewReader(in)); !errors.Is(err, ErrNotWavFile) {
				t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
			}
		})
	}
}

func TestDecode_ClosesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteWAV16(f, 8000, 1, []int16{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err == nil {
		t.Error("file still open after the source was closed")
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "capture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	w := NewWriter(f, 48000, 2)
	chunks := [][]float64{
		{0.5, -0.5, 0.25, -0.25},
		{},
		{1, -1},
	}
	for _, c := range chunks {
		if err := w.WriteFloat64(c); err != nil {
			t.Fatalf("WriteFloat64() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if w.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", w.Frames())
	}
	if err := w.WriteFloat64([]float64{0, 0}); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("WriteFloat64() after Close error = %v, want ErrWriterClosed", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 48000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz x%d, want 48000 Hz x2", src.SampleRate(), src.Channels())
	}

	want := []float64{0.5, -0.5, 0.25, -0.25, 1, -1}
	got := readAll(t, src)
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if exp := float32(utils.Float64ToInt16(want[i])) / 32768; got[i] != exp {
			t.Errorf("sample %d = %v, want %v", i, got[i], exp)
		}
	}
}

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteWAV16(&buf, 22050, 2, []int16{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	if len(b) != 44+8 {
		t.Fatalf("file size = %d, want 52", len(b))
	}
	for _, tt := range []struct {
		off  int
		want string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(b[tt.off : tt.off+4]); got != tt.want {
			t.Errorf("bytes %d..%d = %q, want %q", tt.off, tt.off+4, got, tt.want)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteWAV16_WriteError(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(failWriter{}, 8000, 1, []int16{1}); err == nil {
		t.Error("expected error from failing writer")
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	errs := []error{ErrNotWavFile, ErrUnsupportedWavLayout, ErrOnlyPCMSupported, ErrWriterClosed}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 48000)
	for i := range samples {
		samples[i] = int16(i)
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = WriteWAV16(io.Discard, 48000, 1, samples)
	}
}
