// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF decoding through github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported, for any channel count
// and sample rate:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	n, err := src.ReadSamples(buf)
//
// Samples come out as float32 in [-1.0, 1.0).
package aiff
