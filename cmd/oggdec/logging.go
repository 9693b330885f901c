// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// newLogger builds a text logger at level writing to stderr, or to a rotated
// file when path is set. The returned func releases the file.
func newLogger(level, path string, stderr io.Writer) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}

	w := stderr
	closer := func() error { return nil }

	if path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}

		w = fileWriter
		closer = fileWriter.Close
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})

	return slog.New(handler), closer, nil
}
