// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/ik5/oggstream/audio"
)

// Memory is a Stream over a caller-owned byte slice. It borrows data and
// never modifies it. The cursor always stays within [0, len(data)].
type Memory struct {
	data []byte
	pos  int64
}

// NewMemory returns a Memory positioned at the start of data.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

// Size returns the total number of bytes in the buffer.
func (m *Memory) Size() int64 { return int64(len(m.data)) }

// Len returns the number of unread bytes.
func (m *Memory) Len() int64 { return int64(len(m.data)) - m.pos }

// Read copies up to len(p) bytes from the cursor. At the end of the buffer it
// returns (0, nil).
func (m *Memory) Read(p []byte) (int, error) {
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)

	return n, nil
}

// Seek moves the cursor. A target before the start or past the end fails
// with audio.ErrInvalidArgs and leaves the cursor where it was.
func (m *Memory) Seek(offset int64, origin audio.SeekOrigin) error {
	var target int64

	switch origin {
	case audio.SeekStart:
		target = offset
	case audio.SeekCurrent:
		target = m.pos + offset
	case audio.SeekEnd:
		target = int64(len(m.data)) + offset
	default:
		return fmt.Errorf("seek origin %s: %w", origin, audio.ErrInvalidArgs)
	}

	if target < 0 || target > int64(len(m.data)) {
		return fmt.Errorf("seek to %d of %d: %w", target, len(m.data), audio.ErrInvalidArgs)
	}

	m.pos = target

	return nil
}

// Tell always succeeds.
func (m *Memory) Tell() (int64, error) {
	return m.pos, nil
}
