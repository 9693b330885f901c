// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/ik5/oggstream/audio"
)

type (
	ReadFunc func(userData any, p []byte) (int, error)
	SeekFunc func(userData any, offset int64, origin audio.SeekOrigin) error
	TellFunc func(userData any) (int64, error)
)

// Funcs is a Stream built from three callbacks sharing one opaque user data
// value. Read and Seek are mandatory; Tell may be nil, in which case Tell
// reports audio.ErrInvalidOperation.
type Funcs struct {
	Read     ReadFunc
	Seek     SeekFunc
	Tell     TellFunc
	UserData any
}

// Validate reports audio.ErrInvalidArgs if a mandatory callback is missing.
func (f *Funcs) Validate() error {
	if f == nil || f.Read == nil || f.Seek == nil {
		return fmt.Errorf("read and seek callbacks are required: %w", audio.ErrInvalidArgs)
	}

	return nil
}

// Stream binds f into an audio.Stream. It fails when Validate does.
func (f *Funcs) Stream() (audio.Stream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &funcStream{f: *f}, nil
}

type funcStream struct {
	f Funcs
}

func (s *funcStream) Read(p []byte) (int, error) {
	return s.f.Read(s.f.UserData, p)
}

func (s *funcStream) Seek(offset int64, origin audio.SeekOrigin) error {
	return s.f.Seek(s.f.UserData, offset, origin)
}

func (s *funcStream) Tell() (int64, error) {
	if s.f.Tell == nil {
		return 0, fmt.Errorf("no tell callback: %w", audio.ErrInvalidOperation)
	}

	return s.f.Tell(s.f.UserData)
}
