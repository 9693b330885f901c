// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio into PCM frames.
//
// Decoding is done by github.com/hajimehoshi/go-mp3, which always produces
// interleaved stereo 16-bit samples. With audio.FormatS16 those bytes are
// copied straight into the caller's buffer; with audio.FormatF32 each sample
// is scaled to [-1, 1].
//
// # Opening a stream
//
//	dec, err := mp3.InitFile("song.mp3", nil)
//	if err != nil {
//	    // Handle error
//	}
//	defer dec.Close()
//
//	buf := make([]byte, 4096*8)
//	n, err := dec.ReadFrames(buf, 4096)
//
// # Seeking
//
// go-mp3 measures the stream when its source can seek. Init probes the
// stream's Tell; a stream that cannot report its position is decoded
// forward only, Length reports audio.ErrLengthUnknown and SeekToFrame
// reports audio.ErrInvalidOperation.
package mp3
