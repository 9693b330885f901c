// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"log/slog"

	"github.com/spf13/afero"
)

// DefaultFormat is used when Config.PreferredFormat is anything other than
// FormatF32 or FormatS16.
const DefaultFormat = FormatF32

// Config carries construction options for a Backend. A nil *Config is valid
// and means all defaults.
type Config struct {
	// PreferredFormat selects the output sample format.
	PreferredFormat SampleFormat

	// Logger receives debug and warning records. Nil means slog.Default().
	Logger *slog.Logger

	// Fs resolves paths given to InitFile. Nil means the OS filesystem.
	Fs afero.Fs
}

// OutputFormat returns the sample format a decoder built from c must use.
func (c *Config) OutputFormat() SampleFormat {
	if c == nil {
		return DefaultFormat
	}

	switch c.PreferredFormat {
	case FormatF32, FormatS16:
		return c.PreferredFormat
	case FormatUnknown:
		return DefaultFormat
	}

	return DefaultFormat
}

// Log returns the configured logger or slog.Default().
func (c *Config) Log() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}

	return c.Logger
}

// Filesystem returns the configured filesystem or afero.NewOsFs().
func (c *Config) Filesystem() afero.Fs {
	if c == nil || c.Fs == nil {
		return afero.NewOsFs()
	}

	return c.Fs
}
