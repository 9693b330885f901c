// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/internal/audiotest"
	"github.com/ik5/oggstream/utils"
)

func testConfig(f audio.SampleFormat) *audio.Config {
	return &audio.Config{PreferredFormat: f, Logger: slog.New(slog.DiscardHandler)}
}

func fixture(t *testing.T, p audiotest.PCM) []byte {
	t.Helper()

	data, err := audiotest.AIFFBytes(p)
	require.NoError(t, err)

	return data
}

func TestInitMemory_ReadsBigEndianPCM(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(44100, 2, 16, 1500)
	d, err := InitMemory(fixture(t, p), testConfig(audio.FormatS16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	f, err := d.Format()
	require.NoError(t, err)
	assert.Equal(t, 2, f.Channels)
	assert.Equal(t, 44100, f.SampleRate)

	n, err := d.Length()
	require.NoError(t, err)
	assert.EqualValues(t, 1500, n)

	buf := make([]byte, 1500*4)
	got, err := d.ReadFrames(buf, 1500)
	require.NoError(t, err)
	require.Equal(t, 1500, got)

	for i, want := range p.Samples {
		require.Equal(t, int16(want), utils.Int16LE(buf, i), "sample %d", i)
	}

	_, err = d.ReadFrames(buf, 1)
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoder_SeekAndF32(t *testing.T) {
	t.Parallel()

	p := audiotest.RampPCM(8000, 1, 16, 2048)
	d, err := InitMemory(fixture(t, p), testConfig(audio.FormatF32))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.SeekToFrame(2000))

	buf := make([]byte, 100*4)
	n, err := d.ReadFrames(buf, 100)
	require.NoError(t, err)
	require.Equal(t, 48, n)
	assert.InDelta(t, utils.Int16ToFloat32(int16(p.Samples[2000])), utils.Float32LE(buf, 0), 1e-6)
}

func TestInitFile_ClosesOnFailure(t *testing.T) {
	t.Parallel()

	fs := audiotest.NewCountingFs(afero.NewMemMapFs())
	require.NoError(t, afero.WriteFile(fs, "fake.aiff", []byte("FORM\x00\x00\x00\x04AIFX"), 0o644))
	require.NoError(t, audiotest.WriteAIFF(fs, "ok.aiff", audiotest.RampPCM(8000, 1, 16, 10)))

	cfg := testConfig(audio.FormatS16)
	cfg.Fs = fs

	_, err := InitFile("fake.aiff", cfg)
	require.ErrorIs(t, err, audio.ErrInvalidFile)
	assert.Zero(t, fs.OpenFiles())

	d, err := InitFile("ok.aiff", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.OpenFiles())
	require.NoError(t, d.Close())
	assert.Zero(t, fs.OpenFiles())
}

func TestInit_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Init(nil, nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)

	_, err = InitMemory(nil, nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)

	_, err = InitMemory([]byte("This is not AIFF data"), testConfig(audio.FormatS16))
	require.ErrorIs(t, err, audio.ErrInvalidFile)

	_, err = InitFile("", nil)
	require.ErrorIs(t, err, audio.ErrInvalidArgs)
}

func TestBackend_DetectAndDecode(t *testing.T) {
	t.Parallel()

	data := fixture(t, audiotest.RampPCM(8000, 1, 16, 10))

	r := audio.NewRegistry()
	r.Register(Backend{})

	b, err := r.Detect(data)
	require.NoError(t, err)
	require.Equal(t, "aiff", b.Name())

	ds, err := b.InitMemory(data, testConfig(audio.FormatS16))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })

	f, err := ds.Format()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Channels)
}
