// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every source reports two
// channels regardless of the file's channel mode:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	n, err := src.ReadSamples(buf)
//
// Samples come out as float32 in [-1.0, 1.0).
package mp3
