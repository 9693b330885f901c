// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files of integer PCM.
//
// Parsing is done by github.com/go-audio/wav. Samples of 16, 24 or 32 bits
// are delivered as audio.FormatS16 (most significant 16 bits) or
// audio.FormatF32 (scaled to [-1, 1]).
//
// # Decoding WAV Files
//
//	dec, err := wav.InitFile("audio.wav", nil)
//	if err != nil {
//	    // Handle error
//	}
//	defer dec.Close()
//
//	f, _ := dec.Format()
//	buf := make([]byte, 4096*f.BytesPerFrame())
//	n, err := dec.ReadFrames(buf, 4096)
//
// # Seeking
//
// go-audio reads the data chunk forward only, so SeekToFrame rewinds the
// source, parses the headers again and decodes up to the target frame. The
// stream given to Init must therefore support seeking to its start.
package wav
