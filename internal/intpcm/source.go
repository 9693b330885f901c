// SPDX-License-Identifier: EPL-2.0

// Package intpcm is the frame engine shared by the uncompressed container
// backends. go-audio decoders hand out interleaved integer samples at the
// file's bit depth; Source turns those into audio.DataSource frames.
package intpcm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/oggstream/audio"
)

const chunkFrames = 1024

// ErrBitDepth is returned by New for sample widths other than 16, 24 or 32.
var ErrBitDepth = errors.New("unsupported bit depth")

// Reader is the part of go-audio's wav and aiff decoders Source drives.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Layout describes the PCM data of an opened container.
type Layout struct {
	Channels   int
	SampleRate int
	BitDepth   int
	// Frames is the total frame count, or negative when unknown.
	Frames int64
}

// OpenFunc positions a fresh decoder at the first PCM frame. Source calls
// it once on construction and again for every seek.
type OpenFunc func() (Reader, Layout, error)

// Source is an audio.DataSource over a go-audio integer PCM decoder.
type Source struct {
	name   string
	open   OpenFunc
	rd     Reader
	layout Layout
	format audio.SampleFormat

	pos     int64
	samples []int
	// pending holds the samples of an incomplete frame from the last read.
	pending []int

	closer io.Closer
	log    *slog.Logger
	closed bool
}

var _ audio.DataSource = (*Source)(nil)

// New opens the container through open. name labels log records. closer,
// when set, is closed by Close and also when New fails.
func New(name string, open OpenFunc, closer io.Closer, cfg *audio.Config) (*Source, error) {
	fail := func(err error) (*Source, error) {
		if closer != nil {
			_ = closer.Close()
		}

		cfg.Log().Debug(name+" open failed", "error", err)

		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	rd, layout, err := open()
	if err != nil {
		return fail(err)
	}

	if layout.Channels <= 0 || layout.SampleRate <= 0 {
		return fail(fmt.Errorf("%d channels at %d Hz", layout.Channels, layout.SampleRate))
	}

	switch layout.BitDepth {
	case 16, 24, 32:
	default:
		return fail(fmt.Errorf("%w: %d", ErrBitDepth, layout.BitDepth))
	}

	s := &Source{
		name:    name,
		open:    open,
		rd:      rd,
		layout:  layout,
		format:  cfg.OutputFormat(),
		samples: make([]int, chunkFrames*layout.Channels),
		closer:  closer,
		log:     cfg.Log(),
	}

	s.log.Debug(name+" decoder ready",
		"format", s.format.String(),
		"channels", layout.Channels,
		"sample_rate", layout.SampleRate,
		"bit_depth", layout.BitDepth,
		"frames", layout.Frames)

	return s, nil
}

func (s *Source) usable() error {
	if s == nil {
		return fmt.Errorf("nil decoder: %w", audio.ErrInvalidArgs)
	}

	if s.closed {
		return fmt.Errorf("decoder closed: %w", audio.ErrInvalidOperation)
	}

	return nil
}

// fill decodes up to want whole frames into s.samples and returns how many
// it got. Zero frames with a nil error is end of data.
func (s *Source) fill(want int) (int, error) {
	ch := s.layout.Channels

	if s.layout.Frames >= 0 {
		want = int(min(int64(want), s.layout.Frames-s.pos))
	}

	if want <= 0 {
		return 0, nil
	}

	buf := s.samples[:want*ch]
	have := copy(buf, s.pending)
	s.pending = s.pending[:0]

	for have < len(buf) {
		ib := &goaudio.IntBuffer{Data: buf[have:]}

		n, err := s.rd.PCMBuffer(ib)
		have += n

		if err != nil && !errors.Is(err, io.EOF) {
			frames := have / ch
			s.keepPartial(buf, frames*ch, have)

			return frames, err
		}

		if n == 0 {
			break
		}
	}

	frames := have / ch
	s.keepPartial(buf, frames*ch, have)

	return frames, nil
}

func (s *Source) keepPartial(buf []int, from, to int) {
	s.pending = append(s.pending[:0], buf[from:to]...)
}

// ReadFrames decodes up to frameCount frames into dst. Partial results before
// end of data succeed; the next call reports io.EOF.
func (s *Source) ReadFrames(dst []byte, frameCount int) (int, error) {
	if frameCount <= 0 {
		return 0, fmt.Errorf("frame count %d: %w", frameCount, audio.ErrInvalidArgs)
	}

	if dst == nil {
		return 0, fmt.Errorf("nil destination: %w", audio.ErrInvalidArgs)
	}

	if err := s.usable(); err != nil {
		return 0, err
	}

	ch := s.layout.Channels

	bpf := audio.BytesPerFrame(s.format, ch)
	if frameCount > len(dst)/bpf {
		return 0, fmt.Errorf("destination holds %d of %d frames: %w", len(dst)/bpf, frameCount, audio.ErrInvalidArgs)
	}

	total := 0

	for total < frameCount {
		want := min(chunkFrames, frameCount-total)

		n, err := s.fill(want)

		out := audio.OffsetFrames(dst, total, s.format, ch)
		s.convert(out, s.samples[:n*ch])

		total += n
		s.pos += int64(n)

		if err != nil {
			s.log.Warn(s.name+" decode error", "frames_read", total, "error", err)
			return total, fmt.Errorf("%w: %w", audio.ErrDecode, err)
		}

		if n == 0 {
			break
		}
	}

	if total == 0 {
		return 0, io.EOF
	}

	return total, nil
}

func (s *Source) convert(dst []byte, samples []int) {
	if s.format == audio.FormatS16 {
		PutS16(dst, samples, s.layout.BitDepth)
		return
	}

	PutF32(dst, samples, s.layout.BitDepth)
}

// SeekToFrame reopens the container and decodes forward to frame. Seeking
// to Length is valid and leaves the decoder at end of data.
func (s *Source) SeekToFrame(frame int64) error {
	if err := s.usable(); err != nil {
		return err
	}

	if frame < 0 {
		return fmt.Errorf("frame %d: %w", frame, audio.ErrInvalidArgs)
	}

	if s.layout.Frames < 0 {
		return fmt.Errorf("%s length unknown: %w", s.name, audio.ErrInvalidOperation)
	}

	if frame > s.layout.Frames {
		return fmt.Errorf("frame %d of %d: %w", frame, s.layout.Frames, audio.ErrInvalidArgs)
	}

	rd, _, err := s.open()
	if err != nil {
		return fmt.Errorf("%w: reopen: %w", audio.ErrDecode, err)
	}

	s.rd = rd
	s.pos = 0
	s.pending = s.pending[:0]

	for s.pos < frame {
		n, err := s.fill(int(min(chunkFrames, frame-s.pos)))
		s.pos += int64(n)

		if err != nil {
			return fmt.Errorf("%w: %w", audio.ErrDecode, err)
		}

		if n == 0 {
			return fmt.Errorf("%w: data ends at frame %d", audio.ErrDecode, s.pos)
		}
	}

	s.log.Debug(s.name+" seek", "frame", frame)

	return nil
}

func (s *Source) Format() (audio.Format, error) {
	if err := s.usable(); err != nil {
		return audio.Format{}, err
	}

	return audio.Format{
		SampleFormat: s.format,
		Channels:     s.layout.Channels,
		SampleRate:   s.layout.SampleRate,
		ChannelMap:   ChannelMap(s.layout.Channels),
	}, nil
}

func (s *Source) Cursor() (int64, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}

	return s.pos, nil
}

func (s *Source) Length() (int64, error) {
	if err := s.usable(); err != nil {
		return 0, err
	}

	if s.layout.Frames < 0 {
		return 0, audio.ErrLengthUnknown
	}

	return s.layout.Frames, nil
}

// Close is safe to call more than once.
func (s *Source) Close() error {
	if s == nil || s.closed {
		return nil
	}

	s.closed = true
	s.rd = nil
	s.samples = nil
	s.pending = nil

	s.log.Debug(s.name + " decoder closed")

	if s.closer == nil {
		return nil
	}

	if err := s.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
