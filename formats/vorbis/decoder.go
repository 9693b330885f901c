// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/internal/vorbisfile"
	"github.com/ik5/oggstream/stream"
)

// chunkFrames bounds how many frames one codec call may produce.
const chunkFrames = 1024

// decodeHandle is the method set of *vorbisfile.File, to allow testing.
type decodeHandle interface {
	Info() (vorbisfile.Info, error)
	Comments() vorbisfile.Comments
	ReadFloat(frames int) ([][]float32, error)
	ReadInt16(dst []byte) (int, error)
	Seek(frame int64) error
	Tell() (int64, error)
	Total() (int64, error)
	Close() error
}

// Comments is the stream's Vorbis comment header.
type Comments struct {
	Vendor   string
	Comments []string
}

// Decoder is an audio.DataSource over an Ogg Vorbis stream.
type Decoder struct {
	handle     decodeHandle
	format     audio.SampleFormat
	channels   int
	sampleRate int

	// owned is the memory stream InitMemory created; it is dropped on Close.
	// Streams passed to Init are never touched by Close.
	owned *stream.Memory

	log    *slog.Logger
	closed bool
}

var _ audio.DataSource = (*Decoder)(nil)

func newDecoder(cfg *audio.Config) *Decoder {
	return &Decoder{
		format: cfg.OutputFormat(),
		log:    cfg.Log(),
	}
}

// attach binds h to d once the stream is open. On failure h is closed.
func (d *Decoder) attach(h decodeHandle) (*Decoder, error) {
	info, err := h.Info()
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	d.handle = h
	d.channels = info.Channels
	d.sampleRate = info.SampleRate

	d.log.Debug("vorbis decoder ready",
		"format", d.format.String(),
		"channels", d.channels,
		"sample_rate", d.sampleRate)

	return d, nil
}

// Init decodes from s. The caller keeps ownership of s; Close does not
// touch it. A stream whose Tell fails is decoded forward only.
func Init(s audio.Stream, cfg *audio.Config) (*Decoder, error) {
	if s == nil {
		return nil, fmt.Errorf("nil stream: %w", audio.ErrInvalidArgs)
	}

	d := newDecoder(cfg)

	h, err := vorbisfile.Open(stream.CodecReader(s))
	if err != nil {
		d.log.Debug("vorbis open failed", "error", err)
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	return d.attach(h)
}

// InitCallbacks decodes from a stream made of callbacks. Read and Seek must
// be set.
func InitCallbacks(f stream.Funcs, cfg *audio.Config) (*Decoder, error) {
	s, err := f.Stream()
	if err != nil {
		return nil, err
	}

	return Init(s, cfg)
}

// InitFile opens path through cfg's filesystem. The file belongs to the
// decoder and is closed by Close, or before InitFile returns an error.
func InitFile(path string, cfg *audio.Config) (*Decoder, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", audio.ErrInvalidArgs)
	}

	d := newDecoder(cfg)

	h, err := vorbisfile.OpenFile(cfg.Filesystem(), path)
	if err != nil {
		d.log.Debug("vorbis open failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	return d.attach(h)
}

// InitMemory decodes from data, which must stay unmodified until Close.
func InitMemory(data []byte, cfg *audio.Config) (*Decoder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty buffer: %w", audio.ErrInvalidArgs)
	}

	d := newDecoder(cfg)
	mem := stream.NewMemory(data)

	h, err := vorbisfile.Open(stream.NewBridge(mem))
	if err != nil {
		d.log.Debug("vorbis open failed", "size", len(data), "error", err)
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	d.owned = mem

	return d.attach(h)
}

func (d *Decoder) usable() error {
	if d == nil {
		return fmt.Errorf("nil decoder: %w", audio.ErrInvalidArgs)
	}

	if d.closed {
		return fmt.Errorf("decoder closed: %w", audio.ErrInvalidOperation)
	}

	return nil
}

// ReadFrames decodes up to frameCount frames into dst. A call that decodes
// some frames before the stream ends succeeds with the partial count; the
// next call reports io.EOF. After a decode error the count of frames already
// written is still returned and the decoder stays usable.
func (d *Decoder) ReadFrames(dst []byte, frameCount int) (int, error) {
	if frameCount <= 0 {
		return 0, fmt.Errorf("frame count %d: %w", frameCount, audio.ErrInvalidArgs)
	}

	if dst == nil {
		return 0, fmt.Errorf("nil destination: %w", audio.ErrInvalidArgs)
	}

	if err := d.usable(); err != nil {
		return 0, err
	}

	bpf := audio.BytesPerFrame(d.format, d.channels)
	if frameCount > len(dst)/bpf {
		return 0, fmt.Errorf("destination holds %d of %d frames: %w", len(dst)/bpf, frameCount, audio.ErrInvalidArgs)
	}

	total := 0

	for total < frameCount {
		want := min(chunkFrames, frameCount-total)
		out := audio.OffsetFrames(dst, total, d.format, d.channels)

		var (
			n   int
			err error
		)

		if d.format == audio.FormatF32 {
			var planar [][]float32

			planar, err = d.handle.ReadFloat(want)
			if len(planar) > 0 {
				n = min(len(planar[0]), want)
				audio.InterleaveF32(out, planar, n)
			}
		} else {
			var written int

			written, err = d.handle.ReadInt16(out[:want*bpf])
			n = written / bpf
		}

		total += n

		if err != nil && !errors.Is(err, io.EOF) {
			d.log.Warn("vorbis decode error", "frames_read", total, "error", err)
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

// SeekToFrame moves to an absolute frame. Seeking to Length is valid and
// leaves the decoder at end of stream.
func (d *Decoder) SeekToFrame(frame int64) error {
	if err := d.usable(); err != nil {
		return err
	}

	if frame < 0 {
		return fmt.Errorf("frame %d: %w", frame, audio.ErrInvalidArgs)
	}

	err := d.handle.Seek(frame)

	switch {
	case err == nil:
		d.log.Debug("vorbis seek", "frame", frame)
		return nil
	case errors.Is(err, vorbisfile.ErrNoSeek):
		return fmt.Errorf("%w: %w", audio.ErrInvalidOperation, err)
	case errors.Is(err, vorbisfile.ErrOutOfRange):
		return fmt.Errorf("%w: %w", audio.ErrInvalidArgs, err)
	default:
		return fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}
}

// Format reports the negotiated format. The sample format is the one chosen
// at construction; the rest comes from the stream headers.
func (d *Decoder) Format() (audio.Format, error) {
	if err := d.usable(); err != nil {
		return audio.Format{}, err
	}

	info, err := d.handle.Info()
	if err != nil {
		return audio.Format{}, fmt.Errorf("%w: %w", audio.ErrInvalidOperation, err)
	}

	return audio.Format{
		SampleFormat: d.format,
		Channels:     info.Channels,
		SampleRate:   info.SampleRate,
		ChannelMap:   audio.VorbisChannelMap(info.Channels),
	}, nil
}

func (d *Decoder) Cursor() (int64, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}

	pos, err := d.handle.Tell()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	if pos < 0 {
		return 0, fmt.Errorf("position %d: %w", pos, audio.ErrInvalidFile)
	}

	return pos, nil
}

// Length reports the total frame count. A stream whose length cannot be
// measured reports audio.ErrLengthUnknown, which also matches
// audio.ErrInvalidFile.
func (d *Decoder) Length() (int64, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}

	total, err := d.handle.Total()

	switch {
	case err == nil && total >= 0:
		return total, nil
	case errors.Is(err, vorbisfile.ErrNoLength):
		return 0, audio.ErrLengthUnknown
	case err != nil:
		return 0, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	default:
		return 0, fmt.Errorf("length %d: %w", total, audio.ErrInvalidFile)
	}
}

// Comments returns the vendor string and user comments of the stream.
func (d *Decoder) Comments() (Comments, error) {
	if err := d.usable(); err != nil {
		return Comments{}, err
	}

	c := d.handle.Comments()

	return Comments{Vendor: c.Vendor, Comments: c.Comments}, nil
}

// Close releases the decode handle and any memory stream the decoder owns.
// It is safe to call more than once.
func (d *Decoder) Close() error {
	if d == nil || d.closed {
		return nil
	}

	d.closed = true
	d.owned = nil

	err := d.handle.Close()
	d.handle = nil

	d.log.Debug("vorbis decoder closed")

	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
