// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 scales x from [-1, 1] to int16, rounding to nearest and
// clamping values outside the range.
func Float32ToInt16(x float32) int16 {
	scaled := math.Round(float64(x) * math.MaxInt16)
	scaled = max(math.MinInt16, min(math.MaxInt16, scaled))

	return int16(scaled)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for in-range values.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / math.MaxInt16
}

// PutInt16LE converts samples and stores them as little-endian int16 into
// dst, which must hold 2*len(samples) bytes.
func PutInt16LE(dst []byte, samples []float32) {
	if len(samples) == 0 {
		return
	}

	_ = dst[2*len(samples)-1]

	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(s)))
	}
}

// Int16LE reads the i-th little-endian int16 sample from src.
func Int16LE(src []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(src[2*i:]))
}

// Float32LE reads the i-th little-endian float32 sample from src.
func Float32LE(src []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
}

// PutFloat32LE stores v as the i-th little-endian float32 sample of dst.
func PutFloat32LE(dst []byte, i int, v float32) {
	binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
}

// PutInt16 stores v as the i-th little-endian int16 sample of dst.
func PutInt16(dst []byte, i int, v int16) {
	binary.LittleEndian.PutUint16(dst[2*i:], uint16(v))
}
