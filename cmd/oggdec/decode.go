// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/ik5/oggstream"
	"github.com/ik5/oggstream/audio"
	"github.com/ik5/oggstream/formats/vorbis"
	"github.com/ik5/oggstream/utils"
)

var (
	errInvalidArgCount = errors.New("expected exactly one argument: file path")
	errWAVNeedsS16     = errors.New("WAV output is 16-bit; use --raw for f32")
	errBadChunk        = errors.New("chunk must be positive")
	errBadFormat       = errors.New("format must be f32 or s16")
)

// wavPCM is the WAVE_FORMAT_PCM tag passed to the encoder.
const wavPCM = 1

type decodeOptions struct {
	input  string
	output string
	format audio.SampleFormat
	chunk  int
	start  int64
	info   bool
	raw    bool
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode audio file to WAV (or raw PCM with --raw)",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file path (- for stdout)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "s16",
				Usage:   "sample format: s16 or f32 (f32 requires --raw)",
			},
			&cli.IntFlag{
				Name:  "chunk",
				Value: 1024,
				Usage: "frames requested per read",
			},
			&cli.IntFlag{
				Name:  "start",
				Value: 0,
				Usage: "frame to seek to before decoding",
			},
			&cli.BoolFlag{
				Name:    "info",
				Aliases: []string{"i"},
				Usage:   "print format info and exit without decoding",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "output raw interleaved PCM instead of WAV",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to a rotated file instead of stderr",
			},
		},
		Action: runDecode,
	}
}

func runDecode(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	format, ok := audio.ParseSampleFormat(cmd.String("format"))
	if !ok {
		return fmt.Errorf("%w: %q", errBadFormat, cmd.String("format"))
	}

	logger, closeLog, err := newLogger(cmd.String("log-level"), cmd.String("log-file"), cmd.Root().ErrWriter)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := decodeOptions{
		input:  cmd.Args().First(),
		output: cmd.String("output"),
		format: format,
		chunk:  int(cmd.Int("chunk")),
		start:  int64(cmd.Int("start")),
		info:   cmd.Bool("info"),
		raw:    cmd.Bool("raw"),
	}

	cfg := &audio.Config{
		PreferredFormat: format,
		Logger:          logger,
		Fs:              afero.NewOsFs(),
	}

	return decode(opts, cfg, cmd.Root().Writer, cmd.Root().ErrWriter)
}

// decode runs one decode job. Output "-" goes to stdout; info goes to diag.
func decode(opts decodeOptions, cfg *audio.Config, stdout, diag io.Writer) error {
	if opts.chunk <= 0 {
		return fmt.Errorf("%w: %d", errBadChunk, opts.chunk)
	}

	if !opts.raw && !opts.info && opts.format != audio.FormatS16 {
		return errWAVNeedsS16
	}

	backend, err := oggstream.DetectFile(oggstream.NewDefaultRegistry(), opts.input, cfg)
	if err != nil {
		return fmt.Errorf("detecting codec: %w", err)
	}

	src, err := backend.InitFile(opts.input, cfg)
	if err != nil {
		return fmt.Errorf("opening %s: %w", opts.input, err)
	}
	defer src.Close()

	format, err := src.Format()
	if err != nil {
		return fmt.Errorf("reading format: %w", err)
	}

	if opts.info {
		printInfo(diag, backend.Name(), src, format)
		return nil
	}

	if opts.start > 0 {
		if err := src.SeekToFrame(opts.start); err != nil {
			return fmt.Errorf("seeking to frame %d: %w", opts.start, err)
		}
	}

	cfg.Log().Info("decoding",
		"input", opts.input,
		"backend", backend.Name(),
		"format", format.SampleFormat.String(),
		"channels", format.Channels,
		"sample_rate", format.SampleRate)

	if opts.raw {
		return writeRaw(cfg.Filesystem(), opts, src, format, stdout)
	}

	return writeWAV(cfg.Filesystem(), opts, src, format, stdout)
}

func printInfo(w io.Writer, codec string, src audio.DataSource, format audio.Format) {
	_, _ = fmt.Fprintf(w, "codec:       %s\n", codec)
	_, _ = fmt.Fprintf(w, "sample rate: %d Hz\n", format.SampleRate)
	_, _ = fmt.Fprintf(w, "channels:    %d\n", format.Channels)

	length, err := src.Length()
	if err != nil {
		_, _ = fmt.Fprintf(w, "frames:      unknown\n")
	} else {
		duration := time.Duration(length) * time.Second / time.Duration(format.SampleRate)
		_, _ = fmt.Fprintf(w, "frames:      %d (%s)\n", length, duration.Round(time.Millisecond))
	}

	if v, ok := src.(interface{ Comments() (vorbis.Comments, error) }); ok {
		if c, err := v.Comments(); err == nil {
			_, _ = fmt.Fprintf(w, "vendor:      %s\n", c.Vendor)

			for _, comment := range c.Comments {
				_, _ = fmt.Fprintf(w, "comment:     %s\n", comment)
			}
		}
	}
}

// stream reads src to the end in chunks of opts.chunk frames and hands each
// chunk to sink.
func stream(opts decodeOptions, src audio.DataSource, format audio.Format, sink func([]byte) error) error {
	bpf := format.BytesPerFrame()
	buf := make([]byte, opts.chunk*bpf)

	for {
		n, err := src.ReadFrames(buf, opts.chunk)
		if n > 0 {
			if serr := sink(buf[:n*bpf]); serr != nil {
				return serr
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
	}
}

func writeRaw(fs afero.Fs, opts decodeOptions, src audio.DataSource, format audio.Format, stdout io.Writer) error {
	if opts.output == "-" {
		return stream(opts, src, format, writeTo(stdout))
	}

	file, err := fs.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := stream(opts, src, format, writeTo(file)); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	return nil
}

func writeTo(w io.Writer) func([]byte) error {
	return func(b []byte) error {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		return nil
	}
}

// writeWAV encodes s16 frames with go-audio. The encoder seeks back to patch
// sizes, so stdout output is staged in an in-memory file first.
func writeWAV(fs afero.Fs, opts decodeOptions, src audio.DataSource, format audio.Format, stdout io.Writer) error {
	target, name := fs, opts.output
	if opts.output == "-" {
		target, name = afero.NewMemMapFs(), "stdout.wav"
	}

	file, err := target.Create(name)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := encodeWAV(file, opts, src, format); err != nil {
		_ = file.Close()
		return err
	}

	if opts.output == "-" {
		if err := copyStaged(file, stdout); err != nil {
			_ = file.Close()
			return err
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	return nil
}

func encodeWAV(file afero.File, opts decodeOptions, src audio.DataSource, format audio.Format) error {
	enc := wav.NewEncoder(file, format.SampleRate, 16, format.Channels, wavPCM)
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		SourceBitDepth: 16,
	}

	err := stream(opts, src, format, func(b []byte) error {
		samples := len(b) / 2
		if cap(ib.Data) < samples {
			ib.Data = make([]int, samples)
		}

		ib.Data = ib.Data[:samples]
		for i := range samples {
			ib.Data[i] = int(utils.Int16LE(b, i))
		}

		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("encoding WAV: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing WAV: %w", err)
	}

	return nil
}

func copyStaged(file afero.File, stdout io.Writer) error {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding staged WAV: %w", err)
	}

	if _, err := io.Copy(stdout, file); err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}

	return nil
}
