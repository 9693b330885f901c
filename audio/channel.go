// SPDX-License-Identifier: EPL-2.0

package audio

// Channel is a speaker position.
type Channel uint16

const (
	ChannelNone Channel = iota
	ChannelMono
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLFE
	ChannelBackLeft
	ChannelBackRight
	ChannelBackCenter
	ChannelSideLeft
	ChannelSideRight
	// ChannelAux0 is the first of the unnamed positions used past eight
	// channels. Aux channel n is ChannelAux0 + n.
	ChannelAux0
)

// vorbisLayouts is the Vorbis I channel order (section 4.3.9),
// indexed by channel count.
var vorbisLayouts = [...][]Channel{
	1: {ChannelMono},
	2: {ChannelFrontLeft, ChannelFrontRight},
	3: {ChannelFrontLeft, ChannelFrontCenter, ChannelFrontRight},
	4: {ChannelFrontLeft, ChannelFrontRight, ChannelBackLeft, ChannelBackRight},
	5: {ChannelFrontLeft, ChannelFrontCenter, ChannelFrontRight, ChannelBackLeft, ChannelBackRight},
	6: {ChannelFrontLeft, ChannelFrontCenter, ChannelFrontRight, ChannelBackLeft, ChannelBackRight, ChannelLFE},
	7: {
		ChannelFrontLeft, ChannelFrontCenter, ChannelFrontRight,
		ChannelSideLeft, ChannelSideRight, ChannelBackCenter, ChannelLFE,
	},
	8: {
		ChannelFrontLeft, ChannelFrontCenter, ChannelFrontRight,
		ChannelSideLeft, ChannelSideRight, ChannelBackLeft, ChannelBackRight, ChannelLFE,
	},
}

// waveLayouts is the default WAVE channel order, used when a file carries
// no channel mask.
var waveLayouts = [...][]Channel{
	1: {ChannelMono},
	2: {ChannelFrontLeft, ChannelFrontRight},
	3: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter},
	4: {ChannelFrontLeft, ChannelFrontRight, ChannelBackLeft, ChannelBackRight},
	5: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelBackLeft, ChannelBackRight},
	6: {ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLFE, ChannelBackLeft, ChannelBackRight},
	7: {
		ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLFE,
		ChannelBackCenter, ChannelSideLeft, ChannelSideRight,
	},
	8: {
		ChannelFrontLeft, ChannelFrontRight, ChannelFrontCenter, ChannelLFE,
		ChannelBackLeft, ChannelBackRight, ChannelSideLeft, ChannelSideRight,
	},
}

// VorbisChannelMap returns the Vorbis channel order for channels channels.
// Counts past eight map to consecutive aux positions. A non-positive count
// returns nil.
func VorbisChannelMap(channels int) []Channel {
	return channelMap(vorbisLayouts[:], channels)
}

// WaveChannelMap is VorbisChannelMap for the default WAVE order.
func WaveChannelMap(channels int) []Channel {
	return channelMap(waveLayouts[:], channels)
}

func channelMap(layouts [][]Channel, channels int) []Channel {
	if channels <= 0 {
		return nil
	}

	m := make([]Channel, channels)

	if channels < len(layouts) {
		copy(m, layouts[channels])
		return m
	}

	for i := range m {
		m[i] = ChannelAux0 + Channel(i)
	}

	return m
}
