// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams into PCM frames.
//
// Decoding is done by github.com/jfreymuth/oggvorbis behind an internal
// handle; no type of that library appears in this package's API.
//
// # Constructing a Decoder
//
// There are three entry points, differing only in where compressed bytes
// come from:
//
//	// Any audio.Stream (sockets, custom containers, stream.Funcs callbacks)
//	dec, err := vorbis.Init(myStream, nil)
//
//	// A path, opened through Config.Fs (the OS filesystem by default)
//	dec, err := vorbis.InitFile("music.ogg", nil)
//
//	// A buffer already in memory
//	dec, err := vorbis.InitMemory(data, &audio.Config{PreferredFormat: audio.FormatS16})
//
// Construction either returns a ready Decoder or releases everything it
// opened. Close releases the decoder; it never closes a stream the caller
// passed in.
//
// # Output Format
//
// The sample format is fixed at construction:
//   - audio.FormatF32 (default): little-endian float32 in [-1.0, 1.0]
//   - audio.FormatS16: little-endian signed 16-bit
//
// Frames are always interleaved in Vorbis channel order:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// Format().ChannelMap names each position.
//
// # Reading
//
//	frames := 4096
//	buf := make([]byte, frames*format.BytesPerFrame())
//	for {
//	    n, err := dec.ReadFrames(buf, frames)
//	    // use buf[:n*format.BytesPerFrame()]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// The codec is driven in chunks of at most 1024 frames. A call that hits the
// end after decoding some frames returns them without error; the following
// call returns io.EOF. A request for zero frames is an error, not an empty
// success.
//
// # Errors
//
// Errors match the audio package sentinels through errors.Is:
//   - audio.ErrInvalidArgs: bad arguments, checked before any codec call
//   - audio.ErrInvalidFile: the stream was rejected or cannot report position
//   - audio.ErrLengthUnknown: the stream length cannot be measured
//   - audio.ErrInvalidOperation: seeking an unseekable stream, use after Close
//   - audio.ErrDecode: corrupt data while reading or seeking
//
// # Concurrency
//
// A Decoder is not safe for concurrent use. Slow streams block ReadFrames
// for as long as their Read blocks.
package vorbis
