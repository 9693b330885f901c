// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"
)

// SampleFormat is the in-memory encoding of one PCM sample.
type SampleFormat uint8

const (
	FormatUnknown SampleFormat = iota
	// FormatF32 is little-endian IEEE-754 float32 in [-1, 1].
	FormatF32
	// FormatS16 is little-endian signed 16-bit.
	FormatS16
)

func (f SampleFormat) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatS16:
		return "s16"
	case FormatUnknown:
		return "unknown"
	}

	return "unknown"
}

// BytesPerSample returns 0 for FormatUnknown.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatF32:
		return 4
	case FormatS16:
		return 2
	case FormatUnknown:
		return 0
	}

	return 0
}

// BytesPerFrame returns the size of one frame of channels samples.
func BytesPerFrame(f SampleFormat, channels int) int {
	return f.BytesPerSample() * channels
}

// ParseSampleFormat maps "f32"/"float32" and "s16"/"int16" to a SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, bool) {
	switch s {
	case "f32", "float32":
		return FormatF32, true
	case "s16", "int16":
		return FormatS16, true
	}

	return FormatUnknown, false
}

// Format describes the PCM a DataSource produces. Channels and SampleRate
// are fixed once the stream has been opened.
type Format struct {
	SampleFormat SampleFormat
	Channels     int
	SampleRate   int
	ChannelMap   []Channel
}

// BytesPerFrame is BytesPerFrame(f.SampleFormat, f.Channels).
func (f Format) BytesPerFrame() int {
	return BytesPerFrame(f.SampleFormat, f.Channels)
}

// OffsetFrames returns buf advanced by frames whole frames.
func OffsetFrames(buf []byte, frames int, f SampleFormat, channels int) []byte {
	return buf[frames*BytesPerFrame(f, channels):]
}

// InterleaveF32 writes frames frames from the per-channel slices in planar
// into dst as interleaved little-endian float32. Every planar slice must
// hold at least frames samples and dst must hold frames full frames.
func InterleaveF32(dst []byte, planar [][]float32, frames int) {
	channels := len(planar)
	if channels == 0 || frames == 0 {
		return
	}

	stride := channels * 4
	_ = dst[frames*stride-1]

	for ch, samples := range planar {
		samples = samples[:frames]
		off := ch * 4

		for i, s := range samples {
			binary.LittleEndian.PutUint32(dst[i*stride+off:], math.Float32bits(s))
		}
	}
}
