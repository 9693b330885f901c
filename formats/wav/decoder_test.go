// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/internal/audiotest"
	"github.com/ik5/oggstream/stream"
	"github.com/ik5/oggstream/utils"
)

func testConfig(f audio.SampleFormat) *audio.Config {
	return &audio.Config{PreferredFormat: f, Logger: slog.New(slog.DiscardHandler)}
}

func fixture(t *testing.T, p audiotest.PCM) []byte {
	t.Helper()

	data, err := audiotest.WAVBytes(p)
	require.NoError(t, err)

	return data
}

func TestInitMemory_S16RoundTrip(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(8000, 2, 16, 2500)
	d, err := InitMemory(fixture(t, p), testConfig(audio.FormatS16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	f, err := d.Format()
	require.NoError(t, err)
	assert.Equal(t, 2, f.Channels)
	assert.Equal(t, 8000, f.SampleRate)
	assert.Equal(t, audio.FormatS16, f.SampleFormat)

	n, err := d.Length()
	require.NoError(t, err)
	assert.EqualValues(t, 2500, n)

	buf := make([]byte, 2500*4)
	got, err := d.ReadFrames(buf, 2500)
	require.NoError(t, err)
	require.Equal(t, 2500, got)

	for i, want := range p.Samples {
		require.Equal(t, int16(want), utils.Int16LE(buf, i), "sample %d", i)
	}

	_, err = d.ReadFrames(buf, 1)
	require.ErrorIs(t, err, io.EOF)
}

func TestInitMemory_24BitAsF32(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(48000, 1, 24, 300)
	d, err := InitMemory(fixture(t, p), testConfig(audio.FormatF32))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	buf := make([]byte, 300*4)
	n, err := d.ReadFrames(buf, 300)
	require.NoError(t, err)
	require.Equal(t, 300, n)

	for i, want := range p.Samples {
		assert.InDelta(t, float64(want)/8388607, utils.Float32LE(buf, i), 1e-6)
	}
}

func TestDecoder_Seek(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(8000, 2, 16, 4000)
	d, err := InitMemory(fixture(t, p), testConfig(audio.FormatS16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.SeekToFrame(3100))

	pos, err := d.Cursor()
	require.NoError(t, err)
	assert.EqualValues(t, 3100, pos)

	buf := make([]byte, 4)
	_, err = d.ReadFrames(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, int16(p.Samples[6200]), utils.Int16LE(buf, 0))
	assert.Equal(t, int16(p.Samples[6201]), utils.Int16LE(buf, 1))

	require.NoError(t, d.SeekToFrame(4000))
	_, err = d.ReadFrames(buf, 1)
	require.ErrorIs(t, err, io.EOF)

	require.ErrorIs(t, d.SeekToFrame(4001), audio.ErrInvalidArgs)
}

func TestInitFile_AferoFs(t *testing.T) {
	t.Parallel()

	fs := audiotest.NewCountingFs(afero.NewMemMapFs())
	require.NoError(t, audiotest.WriteWAV(fs, "tone.wav", audiotest.RampPCM(22050, 1, 16, 100)))

	cfg := testConfig(audio.FormatS16)
	cfg.Fs = fs

	d, err := InitFile("tone.wav", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.OpenFiles())

	require.NoError(t, d.Close())
	assert.Zero(t, fs.OpenFiles())
}

func TestInitFile_ClosesOnFailure(t *testing.T) {
	t.Parallel()

	fs := audiotest.NewCountingFs(afero.NewMemMapFs())
	require.NoError(t, afero.WriteFile(fs, "fake.wav", []byte("RIFF....JUNKJUNK"), 0o644))

	cfg := testConfig(audio.FormatS16)
	cfg.Fs = fs

	_, err := InitFile("fake.wav", cfg)
	require.ErrorIs(t, err, audio.ErrInvalidFile)
	assert.Zero(t, fs.OpenFiles())

	_, err = InitFile("missing.wav", cfg)
	require.ErrorIs(t, err, audio.ErrInvalidFile)

	_, err = InitFile("", cfg)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)
}

func TestInit_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Init(nil, nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)

	_, err = InitMemory(nil, nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)

	_, err = InitMemory([]byte("This is not WAV data"), testConfig(audio.FormatS16))
	require.ErrorIs(t, err, audio.ErrInvalidFile)

	_, err = InitCallbacks(stream.Funcs{}, nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)
}

func TestInitCallbacks_ReadSeeker(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(8000, 2, 16, 50)
	r := bytes.NewReader(fixture(t, p))
	s := stream.FromReadSeeker(r)

	d, err := InitCallbacks(stream.Funcs{
		Read:     func(_ any, b []byte) (int, error) { return s.Read(b) },
		Seek:     func(_ any, off int64, o audio.SeekOrigin) error { return s.Seek(off, o) },
		Tell:     func(_ any) (int64, error) { return s.Tell() },
		UserData: nil,
	}, testConfig(audio.FormatS16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	n, err := d.Length()
	require.NoError(t, err)
	assert.EqualValues(t, 50, n)
}
