// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/jfreymuth/vorbis"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggstream/utils"
)

// fakeReader simulates oggvorbis.Reader over interleaved samples. It hands
// out at most chunk values per Read, like a decoder returning per packet.
type fakeReader struct {
	rate     int
	channels int
	samples  []float32
	pos      int // in values
	chunk    int
	length   int64
	failAt   int // value offset at which Read fails; <0 disables
	seekErr  error
}

func newFakeReader(channels, frames int) *fakeReader {
	samples := make([]float32, channels*frames)
	for i := range samples {
		samples[i] = float32(i%channels+1) / 10 * float32(1-2*(i/channels%2))
	}

	return &fakeReader{
		rate:     44100,
		channels: channels,
		samples:  samples,
		chunk:    64 * channels,
		length:   int64(frames),
		failAt:   -1,
	}
}

func (r *fakeReader) SampleRate() int { return r.rate }
func (r *fakeReader) Channels() int   { return r.channels }
func (r *fakeReader) Length() int64   { return r.length }
func (r *fakeReader) Position() int64 { return int64(r.pos / r.channels) }

func (r *fakeReader) CommentHeader() vorbis.CommentHeader {
	return vorbis.CommentHeader{Vendor: "fake", Comments: []string{"TITLE=test"}}
}

func (r *fakeReader) SetPosition(pos int64) error {
	if r.seekErr != nil {
		return r.seekErr
	}

	r.pos = int(pos) * r.channels

	return nil
}

func (r *fakeReader) Read(p []float32) (int, error) {
	if r.failAt >= 0 && r.pos >= r.failAt {
		return 0, errors.New("corrupt packet")
	}

	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := min(len(p), r.chunk, len(r.samples)-r.pos)
	n -= n % r.channels
	copy(p, r.samples[r.pos:r.pos+n])
	r.pos += n

	return n, nil
}

func TestOpen_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Open(bytes.NewReader([]byte("This is not Ogg Vorbis data")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotVorbis)
}

func TestOpen_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Open(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotVorbis)
}

func TestOpenFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(afero.NewMemMapFs(), "/missing.ogg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotVorbis)
}

func TestOpenFile_InvalidContent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.ogg", []byte("OggS garbage"), 0o644))

	_, err := OpenFile(fs, "/bad.ogg")
	assert.ErrorIs(t, err, ErrNotVorbis)
}

func TestNewFile_RejectsZeroChannels(t *testing.T) {
	t.Parallel()

	r := newFakeReader(1, 10)
	r.channels = 0

	_, err := newFile(r)
	assert.ErrorIs(t, err, ErrNotVorbis)
}

func TestFile_Info(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(2, 100))
	require.NoError(t, err)

	info, err := f.Info()
	require.NoError(t, err)
	assert.Equal(t, Info{Channels: 2, SampleRate: 44100}, info)

	c := f.Comments()
	assert.Equal(t, "fake", c.Vendor)
	assert.Equal(t, []string{"TITLE=test"}, c.Comments)
}

func TestFile_ReadFloat_Planar(t *testing.T) {
	t.Parallel()

	r := newFakeReader(2, 100)
	f, err := newFile(r)
	require.NoError(t, err)

	planar, err := f.ReadFloat(10)
	require.NoError(t, err)
	require.Len(t, planar, 2)
	require.Len(t, planar[0], 10)
	require.Len(t, planar[1], 10)

	for i := range 10 {
		assert.Equal(t, r.samples[2*i], planar[0][i], "left %d", i)
		assert.Equal(t, r.samples[2*i+1], planar[1][i], "right %d", i)
	}

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)
}

func TestFile_ReadFloat_ShortPacket(t *testing.T) {
	t.Parallel()

	r := newFakeReader(1, 100)
	r.chunk = 7
	f, err := newFile(r)
	require.NoError(t, err)

	planar, err := f.ReadFloat(50)
	require.NoError(t, err)
	assert.Len(t, planar[0], 7)
}

func TestFile_ReadFloat_EOF(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(2, 3))
	require.NoError(t, err)

	planar, err := f.ReadFloat(10)
	require.NoError(t, err)
	assert.Len(t, planar[0], 3)

	planar, err = f.ReadFloat(10)
	assert.ErrorIs(t, err, io.EOF)
	assert.Nil(t, planar)
}

func TestFile_ReadFloat_DecodeError(t *testing.T) {
	t.Parallel()

	r := newFakeReader(1, 100)
	r.failAt = 0
	f, err := newFile(r)
	require.NoError(t, err)

	_, err = f.ReadFloat(10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestFile_ReadInt16(t *testing.T) {
	t.Parallel()

	r := newFakeReader(2, 100)
	f, err := newFile(r)
	require.NoError(t, err)

	dst := make([]byte, 4*5)
	n, err := f.ReadInt16(dst)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	for i := range 10 {
		assert.Equal(t, utils.Float32ToInt16(r.samples[i]), utils.Int16LE(dst, i), "sample %d", i)
	}
}

func TestFile_ReadInt16_PartialFrameBuffer(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(2, 100))
	require.NoError(t, err)

	n, err := f.ReadInt16(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFile_Seek(t *testing.T) {
	t.Parallel()

	r := newFakeReader(2, 100)
	f, err := newFile(r)
	require.NoError(t, err)

	require.NoError(t, f.Seek(42))

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(42), pos)

	planar, err := f.ReadFloat(1)
	require.NoError(t, err)
	assert.Equal(t, r.samples[84], planar[0][0])
}

func TestFile_SeekToEnd(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(1, 100))
	require.NoError(t, err)

	require.NoError(t, f.Seek(100))

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(100), pos)

	_, err = f.ReadFloat(10)
	assert.ErrorIs(t, err, io.EOF)

	n, err := f.ReadInt16(make([]byte, 20))
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	// A later seek clears the end state.
	require.NoError(t, f.Seek(0))
	planar, err := f.ReadFloat(10)
	require.NoError(t, err)
	assert.Len(t, planar[0], 10)
}

func TestFile_SeekOutOfRange(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(1, 100))
	require.NoError(t, err)

	assert.ErrorIs(t, f.Seek(101), ErrOutOfRange)
	assert.ErrorIs(t, f.Seek(-1), ErrOutOfRange)
}

func TestFile_SeekUnseekable(t *testing.T) {
	t.Parallel()

	r := newFakeReader(1, 100)
	r.length = 0
	f, err := newFile(r)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Seek(0), ErrNoSeek)

	total, err := f.Total()
	assert.ErrorIs(t, err, ErrNoLength)
	assert.Equal(t, int64(-1), total)
}

func TestFile_SeekCodecError(t *testing.T) {
	t.Parallel()

	r := newFakeReader(1, 100)
	r.seekErr = errors.New("bisection failed")
	f, err := newFile(r)
	require.NoError(t, err)

	err = f.Seek(10)
	require.Error(t, err)
	assert.ErrorIs(t, err, r.seekErr)
}

func TestFile_Total(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(2, 1234))
	require.NoError(t, err)

	total, err := f.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), total)
}

type closeCounter struct {
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func TestFile_Close(t *testing.T) {
	t.Parallel()

	f, err := newFile(newFakeReader(2, 10))
	require.NoError(t, err)

	cc := &closeCounter{}
	f.closer = cc

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 1, cc.closes)

	_, err = f.Info()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.ReadFloat(1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.ReadInt16(make([]byte, 4))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.Seek(0), ErrClosed)
	_, err = f.Tell()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.Total()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, Comments{}, f.Comments())
}

func TestOpenFile_Fixture(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), "../../formats/vorbis/testdata"))

	f, err := OpenFile(fs, "test.ogg")
	require.NoError(t, err)

	info, err := f.Info()
	require.NoError(t, err)
	assert.Equal(t, Info{Channels: 1, SampleRate: 44100}, info)

	total, err := f.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(44100), total)

	assert.Contains(t, f.Comments().Vendor, "libVorbis")

	require.NoError(t, f.Seek(1000))

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), pos)

	planar, err := f.ReadFloat(256)
	require.NoError(t, err)
	require.Len(t, planar, 1)
	assert.NotEmpty(t, planar[0])

	pos, err = f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(1000+len(planar[0])), pos)

	require.NoError(t, f.Close())
}
