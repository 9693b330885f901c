// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/internal/intpcm"
	"github.com/ik5/oggstream/stream"
)

// Decoder is an audio.DataSource over an AIFF file of integer PCM.
type Decoder struct {
	*intpcm.Source
}

var _ audio.DataSource = (*Decoder)(nil)

// opener rewinds rs and reads the COMM chunk with a new go-audio decoder.
// The decoder finds the SSND chunk on its first PCM read.
func opener(rs io.ReadSeeker) intpcm.OpenFunc {
	return func() (intpcm.Reader, intpcm.Layout, error) {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, intpcm.Layout{}, fmt.Errorf("rewind: %w", err)
		}

		dec := aiff.NewDecoder(rs)
		if !dec.IsValidFile() {
			return nil, intpcm.Layout{}, ErrNotAiffFile
		}

		dec.ReadInfo()

		if dec.Format() == nil {
			return nil, intpcm.Layout{}, ErrUnsupportedAiffLayout
		}

		return dec, intpcm.Layout{
			Channels:   int(dec.NumChans),
			SampleRate: dec.SampleRate,
			BitDepth:   int(dec.BitDepth),
			Frames:     int64(dec.NumSampleFrames),
		}, nil
	}
}

// Init decodes from s, which must be able to seek. The caller keeps ownership
// of s.
func Init(s audio.Stream, cfg *audio.Config) (*Decoder, error) {
	if s == nil {
		return nil, fmt.Errorf("nil stream: %w", audio.ErrInvalidArgs)
	}

	src, err := intpcm.New("aiff", opener(stream.NewBridge(s)), nil, cfg)
	if err != nil {
		return nil, err
	}

	return &Decoder{Source: src}, nil
}

func InitCallbacks(f stream.Funcs, cfg *audio.Config) (*Decoder, error) {
	s, err := f.Stream()
	if err != nil {
		return nil, err
	}

	return Init(s, cfg)
}

// InitFile opens path through cfg's filesystem. The file is closed by Close,
// or before InitFile returns an error.
func InitFile(path string, cfg *audio.Config) (*Decoder, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", audio.ErrInvalidArgs)
	}

	f, err := cfg.Filesystem().Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	src, err := intpcm.New("aiff", opener(f), f, cfg)
	if err != nil {
		return nil, err
	}

	return &Decoder{Source: src}, nil
}

// InitMemory decodes from data, which must stay unmodified until Close.
func InitMemory(data []byte, cfg *audio.Config) (*Decoder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty buffer: %w", audio.ErrInvalidArgs)
	}

	return Init(stream.NewMemory(data), cfg)
}
