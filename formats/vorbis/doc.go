// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	n, err := src.ReadSamples(buf)
//
// The decoder already works in float32, so samples pass through unscaled.
package vorbis
