// SPDX-License-Identifier: EPL-2.0

// Package main provides the oggdec CLI for decoding audio streams to PCM.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ik5/oggstream/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Audio stream decoding cli",
		Version: version.Version() + " (" + version.Commit() + " - " + version.Date() + ")",
		Commands: []*cli.Command{
			decodeCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}
