// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and encoding.
//
// Decoding uses github.com/go-audio/wav and accepts integer PCM at 16, 24 or
// 32 bits, any channel count and sample rate:
//
//	src, err := wav.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Samples come out as float32 in [-1.0, 1.0).
//
// # Writing
//
// WriteWAV16 writes a whole file to any io.Writer in one pass:
//
//	err := wav.WriteWAV16(w, 8000, 1, []int16{100, -100, 200})
//
// Writer streams normalized float64 samples to an io.WriteSeeker and
// patches the header on Close. The capture recorder uses it:
//
//	w := wav.NewWriter(file, 48000, 2)
//	err := w.WriteFloat64(samples)
//	err = w.Close()
//
// # Errors
//
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedWavLayout: no data chunk could be found
//   - ErrOnlyPCMSupported: compressed, float or 8-bit data
package wav
