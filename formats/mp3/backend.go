// SPDX-License-Identifier: EPL-2.0

package mp3

import "github.com/ik5/oggstream/audio"

// Backend registers MP3 decoding with an audio.Registry.
type Backend struct{}

var _ audio.Backend = Backend{}

func (Backend) Name() string { return "mp3" }

func (Backend) MIMETypes() []string { return []string{"audio/mpeg"} }

func (Backend) Init(s audio.Stream, cfg *audio.Config) (audio.DataSource, error) {
	d, err := Init(s, cfg)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (Backend) InitFile(path string, cfg *audio.Config) (audio.DataSource, error) {
	d, err := InitFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (Backend) InitMemory(data []byte, cfg *audio.Config) (audio.DataSource, error) {
	d, err := InitMemory(data, cfg)
	if err != nil {
		return nil, err
	}

	return d, nil
}
