//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/spidy-senpai/splitter"
	"github.com/spidy-senpai/splitter/internal/config"
	"github.com/spidy-senpai/splitter/internal/output"
	"github.com/spidy-senpai/splitter/internal/project"
	"github.com/spidy-senpai/splitter/internal/storage"
)

var errProcessArgs = errors.New("expected exactly one argument: file path")

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Separate an audio file, upload every stem, and record the project results",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "splitter.yaml",
			},
			&cli.StringFlag{
				Name:  "project",
				Usage: "Project ID to record results under (default: new random ID)",
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			if !splitter.AllowedExtension(filePath) {
				return fmt.Errorf("%w: %s", splitter.ErrDecode, filePath)
			}

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			projectID := cmd.String("project")
			if projectID == "" {
				projectID = uuid.NewString()
			}

			store, err := project.Open(cfg.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			uploader := storage.NewS3(
				newS3Client(cfg.Storage),
				cfg.Storage.Bucket,
				cfg.Storage.Prefix,
				cfg.Storage.BaseURL,
			)

			opts := splitter.DefaultOptions()
			opts.Margin = cmd.Float("margin")

			result, err := runProject(ctx, store, projectID, filePath, uploader, opts)
			if err != nil {
				return err
			}

			return outputResult(filePath, output.ProcessToMap(result), cmd.String("format"))
		},
	}
}

// runProject wraps Process with project state transitions: processing on
// entry, completed or failed on exit. Upload errors of individual stems
// do not fail the project; they are recorded per stem.
func runProject(
	ctx context.Context,
	store project.Store,
	projectID, filePath string,
	uploader storage.Uploader,
	opts splitter.Options,
) (*splitter.ProcessResult, error) {
	if err := store.SetStatus(ctx, projectID, project.StatusProcessing, ""); err != nil {
		return nil, err
	}

	result, err := splitter.Process(ctx, filePath, projectID, uploader, opts)
	if err != nil {
		if statusErr := store.SetStatus(ctx, projectID, project.StatusFailed, err.Error()); statusErr != nil {
			slog.Error("recording failure", "project", projectID, "error", statusErr)
		}

		return nil, err
	}

	record := &project.Record{
		ID:     projectID,
		Status: project.StatusCompleted,
		Stems:  make(map[string]project.StemRecord, len(result.Stems)),
	}

	for name, stem := range result.Stems {
		entry := project.StemRecord{
			Name:     stem.DisplayName,
			Emoji:    stem.Emoji,
			URL:      stem.URL,
			PublicID: stem.PublicID,
			Format:   stem.Format,
			Bytes:    stem.Bytes,
		}
		if stem.Err != nil {
			entry.Error = stem.Err.Error()
		}

		record.Stems[name] = entry
	}

	if err := store.Save(ctx, record); err != nil {
		return nil, err
	}

	return result, nil
}

// newS3Client builds an S3 client from explicit configuration. No global
// SDK config lookup: the one component needing credentials receives them.
func newS3Client(cfg config.Storage) *s3.Client {
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		}, nil
	})

	options := s3.Options{
		Region:      cfg.Region,
		Credentials: creds,
	}

	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
		options.UsePathStyle = true
	}

	return s3.New(options)
}
