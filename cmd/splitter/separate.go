//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/spidy-senpai/splitter"
	"github.com/spidy-senpai/splitter/internal/encode"
	"github.com/spidy-senpai/splitter/internal/output"
)

var errSeparateArgs = errors.New("expected exactly one argument: file path")

func separateCommand() *cli.Command {
	return &cli.Command{
		Name:      "separate",
		Usage:     "Split an audio file into nine instrument stems, written as WAV files",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for stem WAV files",
				Value:   ".",
			},
			&cli.FloatFlag{
				Name:  "margin",
				Usage: "Harmonic/percussive separation margin; larger is more conservative",
				Value: 2.0,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "progress",
				Aliases: []string{"P"},
				Usage:   "Log pipeline stages as they run",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errSeparateArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()
			outDir := cmd.String("out")

			opts := splitter.DefaultOptions()
			opts.Margin = cmd.Float("margin")

			if cmd.Bool("progress") {
				opts.Events = func(e splitter.Event) {
					slog.Info("pipeline", "stage", e.Stage, "detail", e.Detail, "status", e.Status, "elapsed", e.Elapsed)
				}
			}

			result, err := splitter.Separate(ctx, filePath, opts)
			if err != nil {
				return fmt.Errorf("separation failed: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o750); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			for name, stem := range result.Stems {
				target := filepath.Join(outDir, name+".wav")
				if err := encode.WriteWAV(target, stem.Waveform); err != nil {
					return fmt.Errorf("writing %s: %w", target, err)
				}
			}

			return outputResult(filePath, output.SeparationToMap(result), cmd.String("format"))
		},
	}
}
