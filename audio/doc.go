// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample stream primitives the capture engines
// are built from.
//
//   - Source, a pull based stream of interleaved float32 samples
//   - Resampler for sample rate conversion
//   - MonoMixer for channel mixing
//   - Registry, mapping format names and file extensions to decoders
//
// # Sources
//
// Decoders in the formats subpackages and the processors here all implement
// Source, so they chain:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 16000))
//	n, err := mono.ReadSamples(buf)
//
// Samples are normalized to [-1.0, 1.0]. The end of a stream is io.EOF,
// possibly returned together with the last chunk:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    use(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Format Registry
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, "wave")
//	dec, err := reg.ForPath("take1.WAV")
//
// Keys are case insensitive. Default returns a process wide registry that
// command line tools populate at startup.
package audio
