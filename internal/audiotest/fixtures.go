// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

// PCM is an interleaved integer signal to encode into a fixture.
type PCM struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int
}

// RampPCM returns frames frames where channel ch of frame i holds
// (i*channels + ch) scaled into the bit depth, negated on odd channels.
func RampPCM(sampleRate, channels, bitDepth, frames int) PCM {
	samples := make([]int, frames*channels)
	step := 1 << (bitDepth - 16)

	for i := range samples {
		v := (i % 30000) * step
		if (i%channels)%2 == 1 {
			v = -v
		}

		samples[i] = v
	}

	return PCM{SampleRate: sampleRate, Channels: channels, BitDepth: bitDepth, Samples: samples}
}

// Frames returns the number of whole frames in p.
func (p PCM) Frames() int { return len(p.Samples) / p.Channels }

func (p PCM) buffer() *goaudio.IntBuffer {
	return &goaudio.IntBuffer{
		Data:           p.Samples,
		Format:         &goaudio.Format{NumChannels: p.Channels, SampleRate: p.SampleRate},
		SourceBitDepth: p.BitDepth,
	}
}

type encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

func writeFixture(fs afero.Fs, name string, p PCM, newEnc func(f afero.File) encoder) error {
	f, err := fs.Create(name)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	enc := newEnc(f)

	if err := enc.Write(p.buffer()); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", name, err)
	}

	return nil
}

// WriteWAV encodes p as an integer PCM WAV file named name on fs.
func WriteWAV(fs afero.Fs, name string, p PCM) error {
	return writeFixture(fs, name, p, func(f afero.File) encoder {
		return wav.NewEncoder(f, p.SampleRate, p.BitDepth, p.Channels, 1)
	})
}

// WriteAIFF encodes p as an AIFF file named name on fs.
func WriteAIFF(fs afero.Fs, name string, p PCM) error {
	return writeFixture(fs, name, p, func(f afero.File) encoder {
		return aiff.NewEncoder(f, p.SampleRate, p.BitDepth, p.Channels)
	})
}

// WAVBytes returns p encoded as a WAV file.
func WAVBytes(p PCM) ([]byte, error) {
	fs := afero.NewMemMapFs()
	if err := WriteWAV(fs, "fixture.wav", p); err != nil {
		return nil, err
	}

	return afero.ReadFile(fs, "fixture.wav")
}

// AIFFBytes returns p encoded as an AIFF file.
func AIFFBytes(p PCM) ([]byte, error) {
	fs := afero.NewMemMapFs()
	if err := WriteAIFF(fs, "fixture.aiff", p); err != nil {
		return nil, err
	}

	return afero.ReadFile(fs, "fixture.aiff")
}
