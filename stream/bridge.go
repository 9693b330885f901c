// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/oggstream/audio"
)

var (
	errStreamSeek = errors.New("stream seek failed")
	errStreamTell = errors.New("stream tell failed")
)

// Bridge presents an audio.Stream to a codec library as an io.ReadSeeker.
// Every call is forwarded once; nothing is buffered. The one exception is
// Seek, which follows the stream's Seek with a Tell to report the new offset.
type Bridge struct {
	s audio.Stream
}

// NewBridge wraps s. The caller keeps ownership of s.
func NewBridge(s audio.Stream) *Bridge {
	return &Bridge{s: s}
}

// Read reports zero bytes whenever the stream fails, and io.EOF when the
// stream returns no data.
func (b *Bridge) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := b.s.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("stream read: %w", err)
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Seek returns -1 and an error when either the seek or the following Tell
// fails.
func (b *Bridge) Seek(offset int64, whence int) (int64, error) {
	var origin audio.SeekOrigin

	switch whence {
	case io.SeekStart:
		origin = audio.SeekStart
	case io.SeekCurrent:
		origin = audio.SeekCurrent
	case io.SeekEnd:
		origin = audio.SeekEnd
	default:
		return -1, fmt.Errorf("whence %d: %w", whence, audio.ErrInvalidArgs)
	}

	if err := b.s.Seek(offset, origin); err != nil {
		return -1, fmt.Errorf("%w: %w", errStreamSeek, err)
	}

	return b.Tell()
}

// Tell returns -1 and an error when the stream cannot report its position.
func (b *Bridge) Tell() (int64, error) {
	pos, err := b.s.Tell()
	if err != nil {
		return -1, fmt.Errorf("%w: %w", errStreamTell, err)
	}

	return pos, nil
}

// forwardOnly hides the Seek method of a Bridge.
type forwardOnly struct {
	io.Reader
}

// CodecReader returns the reader a codec library should decode s from. It
// is a Bridge when s can report its position. Otherwise Seek is hidden, so
// the library decodes forward only and never tries to measure the stream.
func CodecReader(s audio.Stream) io.Reader {
	b := NewBridge(s)

	if _, err := s.Tell(); err != nil {
		return forwardOnly{Reader: b}
	}

	return b
}
