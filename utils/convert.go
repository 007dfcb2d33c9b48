// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample format conversions shared by decoders, engines
// and writers.
package utils

import "math"

// Float32ToInt16 converts a normalized sample to 16-bit PCM, clamping to
// [-1, 1]. Negative values scale by 32768 and positive ones by 32767, so
// both ends of the range map onto the int16 limits.
func Float32ToInt16(x float32) int16 {
	return Float64ToInt16(float64(x))
}

// Float64ToInt16 is Float32ToInt16 for float64 samples. NaN maps to 0.
func Float64ToInt16(x float64) int16 {
	switch {
	case x != x:
		return 0
	case x >= 1:
		return math.MaxInt16
	case x <= -1:
		return math.MinInt16
	case x < 0:
		return int16(x * 32768)
	default:
		return int16(x * 32767)
	}
}

// IntToFloat32 normalizes a signed PCM value of the given bit depth to
// [-1, 1).
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}

// Int32ToFloat32 normalizes a full scale 32-bit sample, the format native
// ASIO drivers hand over.
func Int32ToFloat32(v int32) float32 {
	return float32(float64(v) / (1 << 31))
}
