// SPDX-License-Identifier: EPL-2.0

// Package audio holds the contracts every decoder in this module shares.
//
// # DataSource
//
// A DataSource presents a decoded stream as PCM frames:
//
//	type DataSource interface {
//	    ReadFrames(dst []byte, frameCount int) (int, error)
//	    SeekToFrame(frame int64) error
//	    Format() (Format, error)
//	    Cursor() (int64, error)
//	    Length() (int64, error)
//	    Close() error
//	}
//
// A frame is one sample per channel. ReadFrames writes frames interleaved
// in the Format's SampleFormat and reports io.EOF once nothing is left.
//
// # Stream
//
// A Stream supplies the compressed bytes: Read, Seek relative to a
// SeekOrigin and Tell. formats packages adapt it to io.ReadSeeker for
// their codec library; stream.Memory and stream.Funcs are ready-made
// implementations.
//
// # Backend Registry
//
// The registry maps format names to Backends and picks one from content:
//
//	registry := audio.NewRegistry()
//	registry.Register(vorbis.Backend{})
//	registry.Register(mp3.Backend{})
//
//	backend, err := registry.Detect(header)
//	src, err := backend.InitMemory(data, cfg)
//
// # Errors
//
// Errors wrap the sentinels in errors.go and are checked with errors.Is.
package audio
