// SPDX-License-Identifier: EPL-2.0

package oggstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/formats/aiff"
	"github.com/ik5/oggstream/formats/mp3"
	"github.com/ik5/oggstream/formats/vorbis"
	"github.com/ik5/oggstream/formats/wav"
)

// sniffLen is how much of a file is read for content detection.
const sniffLen = 3072

// ReadAllChunk is the number of frames ReadAll requests per call.
const ReadAllChunk = 4096

// NewDefaultRegistry returns a registry holding every backend of this module,
// Vorbis first.
func NewDefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(vorbis.Backend{})
	r.Register(mp3.Backend{})
	r.Register(wav.Backend{})
	r.Register(aiff.Backend{})

	return r
}

var defaultRegistry = NewDefaultRegistry()

// Open detects the format of data and decodes it from memory. data must stay
// unmodified until the returned source is closed.
func Open(data []byte, cfg *audio.Config) (audio.DataSource, error) {
	return OpenWith(defaultRegistry, data, cfg)
}

// OpenWith is Open over the backends of r.
func OpenWith(r *audio.Registry, data []byte, cfg *audio.Config) (audio.DataSource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty buffer: %w", audio.ErrInvalidArgs)
	}

	b, err := r.Detect(data[:min(len(data), sniffLen)])
	if err != nil {
		return nil, err
	}

	cfg.Log().Debug("opening memory stream", "backend", b.Name(), "size", len(data))

	return b.InitMemory(data, cfg)
}

// OpenFile detects the format of the file at path, read through cfg's
// filesystem, and decodes it.
func OpenFile(path string, cfg *audio.Config) (audio.DataSource, error) {
	return OpenFileWith(defaultRegistry, path, cfg)
}

// OpenFileWith is OpenFile over the backends of r.
func OpenFileWith(r *audio.Registry, path string, cfg *audio.Config) (audio.DataSource, error) {
	b, err := DetectFile(r, path, cfg)
	if err != nil {
		return nil, err
	}

	cfg.Log().Debug("opening file", "backend", b.Name(), "path", path)

	return b.InitFile(path, cfg)
}

// DetectFile returns the backend of r that decodes the file at path. Only
// the first few kilobytes are read.
func DetectFile(r *audio.Registry, path string, cfg *audio.Config) (audio.Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", audio.ErrInvalidArgs)
	}

	header, err := readHeader(cfg, path)
	if err != nil {
		return nil, err
	}

	b, err := r.Detect(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return b, nil
}

func readHeader(cfg *audio.Config, path string) ([]byte, error) {
	f, err := cfg.Filesystem().Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}
	defer f.Close()

	header := make([]byte, sniffLen)

	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	if n == 0 {
		return nil, fmt.Errorf("%s is empty: %w", path, audio.ErrInvalidFile)
	}

	return header[:n], nil
}

// ReadAll drains src from its cursor to the end and returns the PCM bytes
// with the format they are encoded in. A decode error returns the frames
// read so far together with the error.
func ReadAll(src audio.DataSource) ([]byte, audio.Format, error) {
	if src == nil {
		return nil, audio.Format{}, fmt.Errorf("nil source: %w", audio.ErrInvalidArgs)
	}

	format, err := src.Format()
	if err != nil {
		return nil, audio.Format{}, err
	}

	bpf := format.BytesPerFrame()
	if bpf <= 0 {
		return nil, format, fmt.Errorf("frame size %d: %w", bpf, audio.ErrInvalidFile)
	}

	var out []byte

	if total, err := src.Length(); err == nil {
		if pos, err := src.Cursor(); err == nil && total > pos {
			out = make([]byte, 0, (total-pos)*int64(bpf))
		}
	}

	buf := make([]byte, ReadAllChunk*bpf)

	for {
		n, err := src.ReadFrames(buf, ReadAllChunk)
		out = append(out, buf[:n*bpf]...)

		if errors.Is(err, io.EOF) {
			return out, format, nil
		}

		if err != nil {
			return out, format, err
		}
	}
}
