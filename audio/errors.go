// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

// End of stream is reported as io.EOF and is not part of this list.
var (
	// ErrInvalidArgs reports a nil, zero or out-of-range argument. It is
	// returned before any codec or stream call is made.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrInvalidFile reports a stream the codec rejected, or a position
	// query the codec could not answer.
	ErrInvalidFile = errors.New("invalid file")

	// ErrInvalidOperation reports an operation the current state does not
	// allow: seeking an unseekable stream, or using a closed decoder.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDecode reports corrupt data hit in the middle of a read.
	ErrDecode = errors.New("decode error")

	// ErrLengthUnknown reports a stream whose total length cannot be
	// determined. It matches ErrInvalidFile through errors.Is.
	ErrLengthUnknown = fmt.Errorf("%w: length unknown", ErrInvalidFile)

	// ErrUnsupportedFormat reports content no registered backend decodes.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)
