// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"

	"github.com/ik5/oggstream/internal/vorbisfile"
	"github.com/ik5/oggstream/utils"
)

// ErrCorrupt is the decode error MockHandle returns once FailAt is reached.
var ErrCorrupt = errors.New("corrupt packet")

// MockHandle is a decode handle that generates audio from a waveform. It
// has the method set formats/vorbis drives on a *vorbisfile.File.
type MockHandle struct {
	sampleRate  int
	channels    int
	totalFrames int64
	pos         int64
	waveform    func(frame int64, channel int) float32

	// PacketFrames caps the frames returned per read, like a decoder
	// returning one packet at a time. Zero means unlimited.
	PacketFrames int
	// FailAt makes reads fail with ErrCorrupt once the position reaches it.
	// Negative disables.
	FailAt int64
	// Unseekable makes Seek and Total behave like a stream without length.
	Unseekable bool

	Reads  int
	Closed bool

	planar [][]float32
}

// NewMockHandle creates a handle of totalFrames frames per channel.
func NewMockHandle(sampleRate, channels int, totalFrames int64, waveform func(frame int64, channel int) float32) *MockHandle {
	return &MockHandle{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		FailAt:      -1,
		planar:      make([][]float32, channels),
	}
}

// NewSineHandle creates a handle producing a sine wave, phase shifted per
// channel so channel order is observable.
func NewSineHandle(sampleRate, channels int, totalFrames int64, frequency float64) *MockHandle {
	return NewMockHandle(sampleRate, channels, totalFrames, func(frame int64, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(0.8 * math.Sin(2*math.Pi*frequency*t+float64(channel)))
	})
}

// NewRampHandle creates a handle whose samples encode frame and channel.
func NewRampHandle(channels int, totalFrames int64) *MockHandle {
	return NewMockHandle(8000, channels, totalFrames, func(frame int64, channel int) float32 {
		return float32(frame%1000)/1000 - float32(channel)/100
	})
}

// Sample returns the value the handle produces at frame for channel.
func (m *MockHandle) Sample(frame int64, channel int) float32 {
	return m.waveform(frame, channel)
}

func (m *MockHandle) Info() (vorbisfile.Info, error) {
	if m.Closed {
		return vorbisfile.Info{}, vorbisfile.ErrClosed
	}

	return vorbisfile.Info{Channels: m.channels, SampleRate: m.sampleRate}, nil
}

func (m *MockHandle) Comments() vorbisfile.Comments {
	return vorbisfile.Comments{Vendor: "audiotest", Comments: []string{"ARTIST=mock"}}
}

func (m *MockHandle) next(frames int) (int, error) {
	if m.Closed {
		return 0, vorbisfile.ErrClosed
	}

	m.Reads++

	if m.FailAt >= 0 && m.pos >= m.FailAt {
		return 0, ErrCorrupt
	}

	if m.pos >= m.totalFrames {
		return 0, io.EOF
	}

	n := min(int64(frames), m.totalFrames-m.pos)
	if m.FailAt >= 0 {
		n = min(n, m.FailAt-m.pos)
	}

	if m.PacketFrames > 0 {
		n = min(n, int64(m.PacketFrames))
	}

	return int(n), nil
}

func (m *MockHandle) ReadFloat(frames int) ([][]float32, error) {
	n, err := m.next(frames)
	if n == 0 {
		return nil, err
	}

	for ch := range m.planar {
		plane := make([]float32, n)
		for i := range plane {
			plane[i] = m.waveform(m.pos+int64(i), ch)
		}

		m.planar[ch] = plane
	}

	m.pos += int64(n)

	return m.planar, nil
}

func (m *MockHandle) ReadInt16(dst []byte) (int, error) {
	frames := len(dst) / (2 * m.channels)
	if frames == 0 {
		return 0, nil
	}

	n, err := m.next(frames)
	if n == 0 {
		return 0, err
	}

	samples := make([]float32, 0, n*m.channels)
	for i := range n {
		for ch := range m.channels {
			samples = append(samples, m.waveform(m.pos+int64(i), ch))
		}
	}

	utils.PutInt16LE(dst, samples)
	m.pos += int64(n)

	return len(samples) * 2, nil
}

func (m *MockHandle) Seek(frame int64) error {
	if m.Closed {
		return vorbisfile.ErrClosed
	}

	if m.Unseekable {
		return vorbisfile.ErrNoSeek
	}

	if frame < 0 || frame > m.totalFrames {
		return vorbisfile.ErrOutOfRange
	}

	m.pos = frame

	return nil
}

func (m *MockHandle) Tell() (int64, error) {
	if m.Closed {
		return -1, vorbisfile.ErrClosed
	}

	return m.pos, nil
}

func (m *MockHandle) Total() (int64, error) {
	if m.Closed {
		return -1, vorbisfile.ErrClosed
	}

	if m.Unseekable {
		return -1, vorbisfile.ErrNoLength
	}

	return m.totalFrames, nil
}

func (m *MockHandle) Close() error {
	m.Closed = true
	return nil
}
