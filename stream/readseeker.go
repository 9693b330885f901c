// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"io"

	"github.com/ik5/oggstream/audio"
)

// FromReadSeeker adapts rs, for example an *os.File or afero.File, into an
// audio.Stream. Closing rs stays with the caller.
func FromReadSeeker(rs io.ReadSeeker) audio.Stream {
	return readSeeker{rs: rs}
}

type readSeeker struct {
	rs io.ReadSeeker
}

func (s readSeeker) Read(p []byte) (int, error) {
	n, err := s.rs.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}

	return n, err
}

func (s readSeeker) Seek(offset int64, origin audio.SeekOrigin) error {
	var whence int

	switch origin {
	case audio.SeekStart:
		whence = io.SeekStart
	case audio.SeekCurrent:
		whence = io.SeekCurrent
	case audio.SeekEnd:
		whence = io.SeekEnd
	default:
		return fmt.Errorf("seek origin %s: %w", origin, audio.ErrInvalidArgs)
	}

	if _, err := s.rs.Seek(offset, whence); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s readSeeker) Tell() (int64, error) {
	pos, err := s.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	return pos, nil
}
