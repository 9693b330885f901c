// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/spf13/afero"
)

// CountingFs wraps an afero.Fs and counts files opened and closed through it.
type CountingFs struct {
	afero.Fs

	mtx    sync.Mutex
	opened int
	closed int
}

func NewCountingFs(fs afero.Fs) *CountingFs {
	return &CountingFs{Fs: fs}
}

func (c *CountingFs) Open(name string) (afero.File, error) {
	f, err := c.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	c.mtx.Lock()
	c.opened++
	c.mtx.Unlock()

	return &countingFile{File: f, fs: c}, nil
}

// OpenFiles returns the number of files currently open.
func (c *CountingFs) OpenFiles() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.opened - c.closed
}

type countingFile struct {
	afero.File

	fs   *CountingFs
	once sync.Once
}

func (f *countingFile) Close() error {
	f.once.Do(func() {
		f.fs.mtx.Lock()
		f.fs.closed++
		f.fs.mtx.Unlock()
	})

	return f.File.Close()
}

// CloseErrFs wraps an afero.Fs. Files created through it are closed for real
// and then report Err, like a write that fails on the final flush.
type CloseErrFs struct {
	afero.Fs

	Err error
}

func (c *CloseErrFs) Create(name string) (afero.File, error) {
	f, err := c.Fs.Create(name)
	if err != nil {
		return nil, err
	}

	return &closeErrFile{File: f, err: c.Err}, nil
}

type closeErrFile struct {
	afero.File

	err error
}

func (f *closeErrFile) Close() error {
	_ = f.File.Close()
	return f.err
}
