// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/utils"
)

// PutS16 stores samples of the given bit depth as little-endian int16,
// keeping the most significant bits.
func PutS16(dst []byte, samples []int, bitDepth int) {
	shift := bitDepth - 16

	for i, v := range samples {
		utils.PutInt16(dst, i, int16(v>>shift))
	}
}

// PutF32 stores samples of the given bit depth as little-endian float32
// scaled to [-1, 1].
func PutF32(dst []byte, samples []int, bitDepth int) {
	scale := float32(goaudio.IntMaxSignedValue(bitDepth))

	for i, v := range samples {
		utils.PutFloat32LE(dst, i, float32(v)/scale)
	}
}

// ChannelMap is the speaker order of an uncompressed container without a
// channel mask.
func ChannelMap(channels int) []audio.Channel {
	return audio.WaveChannelMap(channels)
}
