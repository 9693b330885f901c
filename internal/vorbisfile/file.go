// SPDX-License-Identifier: EPL-2.0

// Package vorbisfile is the decode handle behind formats/vorbis. It keeps the
// codec library's types out of every exported signature of the module.
package vorbisfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/jfreymuth/vorbis"
	"github.com/spf13/afero"

	"github.com/ik5/oggstream/utils"
)

var (
	// ErrNotVorbis is returned by Open when the headers cannot be parsed.
	ErrNotVorbis = errors.New("not a vorbis stream")
	// ErrNoSeek is returned for position changes on a stream of unknown length.
	ErrNoSeek = errors.New("stream is not seekable")
	// ErrOutOfRange is returned when seeking past the last frame.
	ErrOutOfRange = errors.New("position out of range")
	// ErrNoLength is returned by Total when the length cannot be determined.
	ErrNoLength = errors.New("length unknown")
	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("file closed")
)

// reader is the subset of oggvorbis.Reader the handle drives, so tests can
// substitute a scripted codec.
type reader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Position() int64
	SetPosition(pos int64) error
	CommentHeader() vorbis.CommentHeader
	// Read returns the number of float32 values written, always a multiple
	// of Channels().
	Read(p []float32) (int, error)
}

// Info is the stream's negotiated layout.
type Info struct {
	Channels   int
	SampleRate int
}

// Comments is the Vorbis comment header.
type Comments struct {
	Vendor   string
	Comments []string
}

// File is an open Vorbis stream.
type File struct {
	r        reader
	channels int
	rate     int
	length   int64

	// atEnd is set by a seek to exactly length; reads report end of stream
	// and Tell reports length until the next seek.
	atEnd bool

	scratch []float32
	planar  [][]float32

	closer io.Closer
	closed bool
}

// Open reads the Vorbis headers from r. If r is also an io.Seeker the total
// length is measured and the stream becomes seekable.
func Open(r io.Reader) (*File, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}

	return newFile(dec)
}

// OpenFile opens path on fs and reads the Vorbis headers from it. The file is
// owned by the returned File and closed by Close, or immediately when
// opening fails.
func OpenFile(fs afero.Fs, path string) (*File, error) {
	fh, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	f, err := Open(fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}

	f.closer = fh

	return f, nil
}

func newFile(r reader) (*File, error) {
	channels := r.Channels()
	if channels <= 0 || r.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrNotVorbis, channels, r.SampleRate())
	}

	return &File{
		r:        r,
		channels: channels,
		rate:     r.SampleRate(),
		length:   r.Length(),
		planar:   make([][]float32, channels),
	}, nil
}

func (f *File) Info() (Info, error) {
	if f.closed {
		return Info{}, ErrClosed
	}

	return Info{Channels: f.channels, SampleRate: f.rate}, nil
}

func (f *File) Comments() Comments {
	if f.closed {
		return Comments{}
	}

	h := f.r.CommentHeader()

	return Comments{Vendor: h.Vendor, Comments: append([]string(nil), h.Comments...)}
}

// readInterleaved decodes up to frames frames into the scratch buffer and
// returns the interleaved samples. Samples and a decode error may come back
// together. End of stream is io.EOF with no samples.
func (f *File) readInterleaved(frames int) ([]float32, error) {
	if f.closed {
		return nil, ErrClosed
	}

	if f.atEnd {
		return nil, io.EOF
	}

	want := frames * f.channels
	if cap(f.scratch) < want {
		f.scratch = make([]float32, want)
	}

	buf := f.scratch[:want]

	n, err := f.r.Read(buf)
	n -= n % f.channels

	switch {
	case err == nil || errors.Is(err, io.EOF):
		if n == 0 {
			return nil, io.EOF
		}

		return buf[:n], nil
	default:
		return buf[:n], fmt.Errorf("%w", err)
	}
}

// ReadFloat decodes up to frames frames and returns them planar, one slice
// per channel. The slices are reused by the next call.
func (f *File) ReadFloat(frames int) ([][]float32, error) {
	if frames <= 0 {
		return nil, nil
	}

	samples, err := f.readInterleaved(frames)
	if len(samples) == 0 {
		return nil, err
	}

	n := len(samples) / f.channels

	for ch := range f.planar {
		if cap(f.planar[ch]) < n {
			f.planar[ch] = make([]float32, n)
		}

		plane := f.planar[ch][:n]
		for i := range plane {
			plane[i] = samples[i*f.channels+ch]
		}

		f.planar[ch] = plane
	}

	return f.planar, err
}

// ReadInt16 decodes into dst as interleaved little-endian signed 16-bit
// samples and returns the number of bytes written, always whole frames.
func (f *File) ReadInt16(dst []byte) (int, error) {
	frames := len(dst) / (2 * f.channels)
	if frames == 0 {
		return 0, nil
	}

	samples, err := f.readInterleaved(frames)
	if len(samples) == 0 {
		return 0, err
	}

	utils.PutInt16LE(dst, samples)

	return len(samples) * 2, err
}

// Seek positions the stream at an absolute frame.
func (f *File) Seek(frame int64) error {
	if f.closed {
		return ErrClosed
	}

	if f.length <= 0 {
		return ErrNoSeek
	}

	if frame < 0 || frame > f.length {
		return fmt.Errorf("frame %d of %d: %w", frame, f.length, ErrOutOfRange)
	}

	if frame == f.length {
		f.atEnd = true
		return nil
	}

	if err := f.r.SetPosition(frame); err != nil {
		return fmt.Errorf("seeking to frame %d: %w", frame, err)
	}

	f.atEnd = false

	return nil
}

// Tell returns the absolute frame of the next sample to be decoded.
func (f *File) Tell() (int64, error) {
	if f.closed {
		return -1, ErrClosed
	}

	if f.atEnd {
		return f.length, nil
	}

	return f.r.Position(), nil
}

// Total returns the stream length in frames.
func (f *File) Total() (int64, error) {
	if f.closed {
		return -1, ErrClosed
	}

	if f.length <= 0 {
		return -1, ErrNoLength
	}

	return f.length, nil
}

// Close releases the handle and the file opened by OpenFile, if any.
func (f *File) Close() error {
	if f.closed {
		return nil
	}

	f.closed = true
	f.r = nil
	f.scratch = nil
	f.planar = nil

	if f.closer == nil {
		return nil
	}

	if err := f.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
