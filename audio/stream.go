// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// SeekOrigin selects what a Stream seek offset is relative to.
type SeekOrigin uint8

const (
	SeekStart SeekOrigin = iota
	SeekCurrent
	SeekEnd
)

func (o SeekOrigin) String() string {
	switch o {
	case SeekStart:
		return "start"
	case SeekCurrent:
		return "current"
	case SeekEnd:
		return "end"
	}

	return fmt.Sprintf("SeekOrigin(%d)", uint8(o))
}

// Stream supplies compressed bytes to a decoder, wherever they live.
//
// Read follows io.Reader except that returning (0, nil) at the end of data is
// allowed; decoders treat a zero-byte read as end of stream. Seek reports
// only success or failure; the new position is observed through Tell.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, origin SeekOrigin) error
	Tell() (int64, error)
}
