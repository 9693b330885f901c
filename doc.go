// SPDX-License-Identifier: EPL-2.0

// Package oggstream decodes compressed and uncompressed audio streams into
// interleaved PCM frames.
//
// Every format lives in its own package under formats/ and exposes the same
// audio.DataSource contract: read frames into a caller buffer, seek to an
// absolute frame, and query the format, cursor and length.
//
// # Supported Formats
//
//   - Ogg Vorbis via formats/vorbis
//   - MP3 via formats/mp3
//   - WAV (integer PCM) via formats/wav
//   - AIFF (integer PCM) via formats/aiff
//
// # Quick Start
//
// Open sniffs the content and picks the backend:
//
//	data, _ := os.ReadFile("song.ogg")
//	src, err := oggstream.Open(data, &audio.Config{PreferredFormat: audio.FormatS16})
//	if err != nil {
//	    // Handle error
//	}
//	defer src.Close()
//
//	pcm, format, err := oggstream.ReadAll(src)
//
// # Streams
//
// Payloads that are neither a file nor a byte slice are supplied through
// audio.Stream. stream.Funcs builds one from read, seek and tell callbacks
// sharing a user data value:
//
//	src, err := vorbis.InitCallbacks(stream.Funcs{
//	    Read:     readFn,
//	    Seek:     seekFn,
//	    Tell:     tellFn,
//	    UserData: conn,
//	}, nil)
//
// # Output Formats
//
// Config.PreferredFormat selects audio.FormatF32 (little-endian float32 in
// [-1, 1]) or audio.FormatS16 (little-endian int16). Anything else falls back
// to FormatF32.
package oggstream
