// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/stream"
	"github.com/ik5/oggstream/utils"
)

const (
	// go-mp3 always produces interleaved stereo s16.
	channels       = 2
	codecFrameSize = channels * 2

	chunkFrames = 1024
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	// Length is the decoded size in bytes, or negative when the source
	// cannot seek.
	Length() int64
}

var stereoMap = []audio.Channel{audio.ChannelFrontLeft, audio.ChannelFrontRight}

// Decoder is an audio.DataSource over an MPEG-1/2 Layer III stream.
type Decoder struct {
	dec        mp3Reader
	format     audio.SampleFormat
	sampleRate int

	pos   int64
	atEnd bool

	scratch []byte
	closer  io.Closer

	log    *slog.Logger
	closed bool
}

var _ audio.DataSource = (*Decoder)(nil)

func newDecoder(dec mp3Reader, closer io.Closer, cfg *audio.Config) *Decoder {
	d := &Decoder{
		dec:        dec,
		format:     cfg.OutputFormat(),
		sampleRate: dec.SampleRate(),
		closer:     closer,
		log:        cfg.Log(),
	}

	d.log.Debug("mp3 decoder ready",
		"format", d.format.String(),
		"sample_rate", d.sampleRate,
		"seekable", dec.Length() >= 0)

	return d
}

// Init decodes from s. A stream whose Tell fails is decoded forward only and
// has no length. The caller keeps ownership of s.
func Init(s audio.Stream, cfg *audio.Config) (*Decoder, error) {
	if s == nil {
		return nil, fmt.Errorf("nil stream: %w", audio.ErrInvalidArgs)
	}

	dec, err := gomp3.NewDecoder(stream.CodecReader(s))
	if err != nil {
		cfg.Log().Debug("mp3 open failed", "error", err)
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	return newDecoder(dec, nil, cfg), nil
}

// InitCallbacks decodes from a stream made of callbacks.
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

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()

		cfg.Log().Debug("mp3 open failed", "path", path, "error", err)

		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidFile, err)
	}

	return newDecoder(dec, f, cfg), nil
}

// InitMemory decodes from data, which must stay unmodified until Close.
func InitMemory(data []byte, cfg *audio.Config) (*Decoder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty buffer: %w", audio.ErrInvalidArgs)
	}

	return Init(stream.NewMemory(data), cfg)
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

// readChunk fills buf with whole codec frames and returns how many it read.
// End of stream is not an error.
func (d *Decoder) readChunk(buf []byte) (int, error) {
	n, err := io.ReadFull(d.dec, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = nil
	}

	return n / codecFrameSize, err
}

// ReadFrames decodes up to frameCount frames into dst. Partial results
// before end of stream succeed; the next call reports io.EOF.
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

	bpf := audio.BytesPerFrame(d.format, channels)
	if frameCount > len(dst)/bpf {
		return 0, fmt.Errorf("destination holds %d of %d frames: %w", len(dst)/bpf, frameCount, audio.ErrInvalidArgs)
	}

	if d.atEnd {
		return 0, io.EOF
	}

	total := 0

	for total < frameCount {
		want := min(chunkFrames, frameCount-total)
		out := audio.OffsetFrames(dst, total, d.format, channels)

		var (
			n   int
			err error
		)

		if d.format == audio.FormatS16 {
			n, err = d.readChunk(out[:want*codecFrameSize])
		} else {
			if cap(d.scratch) < want*codecFrameSize {
				d.scratch = make([]byte, chunkFrames*codecFrameSize)
			}

			n, err = d.readChunk(d.scratch[:want*codecFrameSize])
			toFloat(out, d.scratch, n*channels)
		}

		total += n
		d.pos += int64(n)

		if err != nil {
			d.log.Warn("mp3 decode error", "frames_read", total, "error", err)
			return total, fmt.Errorf("%w: %w", audio.ErrDecode, err)
		}

		if n < want {
			break
		}
	}

	if total == 0 {
		return 0, io.EOF
	}

	return total, nil
}

func toFloat(dst, src []byte, samples int) {
	for i := range samples {
		utils.PutFloat32LE(dst, i, utils.Int16ToFloat32(utils.Int16LE(src, i)))
	}
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

	length := d.dec.Length()
	if length < 0 {
		return fmt.Errorf("stream is not seekable: %w", audio.ErrInvalidOperation)
	}

	frames := length / codecFrameSize

	switch {
	case frame > frames:
		return fmt.Errorf("frame %d of %d: %w", frame, frames, audio.ErrInvalidArgs)
	case frame == frames:
		d.atEnd = true
		d.pos = frames

		return nil
	}

	if _, err := d.dec.Seek(frame*codecFrameSize, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrDecode, err)
	}

	d.atEnd = false
	d.pos = frame

	d.log.Debug("mp3 seek", "frame", frame)

	return nil
}

func (d *Decoder) Format() (audio.Format, error) {
	if err := d.usable(); err != nil {
		return audio.Format{}, err
	}

	m := make([]audio.Channel, len(stereoMap))
	copy(m, stereoMap)

	return audio.Format{
		SampleFormat: d.format,
		Channels:     channels,
		SampleRate:   d.sampleRate,
		ChannelMap:   m,
	}, nil
}

func (d *Decoder) Cursor() (int64, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}

	return d.pos, nil
}

// Length reports audio.ErrLengthUnknown for a stream that cannot seek.
func (d *Decoder) Length() (int64, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}

	length := d.dec.Length()
	if length < 0 {
		return 0, audio.ErrLengthUnknown
	}

	return length / codecFrameSize, nil
}

// Close releases the file InitFile opened. It is safe to call more than once.
func (d *Decoder) Close() error {
	if d == nil || d.closed {
		return nil
	}

	d.closed = true
	d.dec = nil
	d.scratch = nil

	d.log.Debug("mp3 decoder closed")

	if d.closer == nil {
		return nil
	}

	if err := d.closer.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
