// Copyright 2025 The GoodWiki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goodwiki/wikirev/internal/checkpoint"
	"github.com/goodwiki/wikirev/internal/config"
	wikierrors "github.com/goodwiki/wikirev/internal/errors"
	"github.com/goodwiki/wikirev/internal/extract"
	"github.com/goodwiki/wikirev/internal/logging"
	"github.com/goodwiki/wikirev/internal/metadata"
	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/goodwiki/wikirev/internal/source"
	"github.com/goodwiki/wikirev/internal/wiki"
	"github.com/spf13/cobra"
)

// configEnv names the environment variable holding an explicit config path.
const configEnv = "WIKIREV_CONFIG"

// newRootCommand builds the wikirev command. It has exactly three flags.
func newRootCommand() *cobra.Command {
	var rng extract.Range

	cmd := &cobra.Command{
		Use:   "wikirev --start_idx <n> --end_idx <m> [--checkpoint <k>]",
		Short: "Extract revision histories of Wikipedia articles to Parquet",
		Long: `wikirev fetches the revision metadata of every article in a slice of the
input table from the MediaWiki Action API and writes it to checkpoint files.

Rows [start_idx, end_idx) of the input table are processed in order. A file
named <prefix>_<start_idx>_<end_idx>_<n>.<ext> is written every checkpoint
titles and after the last title.

All other settings are read from the configuration file ($WIKIREV_CONFIG or
.wikirev.yaml) and WIKIREV_* environment variables.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), rng, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVar(&rng.Start, "start_idx", 0, "First row of the input table to process (inclusive)")
	cmd.Flags().IntVar(&rng.End, "end_idx", 0, "Row of the input table to stop at (exclusive)")
	cmd.Flags().IntVar(&rng.Checkpoint, "checkpoint", checkpoint.DefaultSize, "Number of titles between checkpoint files")
	_ = cmd.MarkFlagRequired("start_idx")
	_ = cmd.MarkFlagRequired("end_idx")

	return cmd
}

// runExtract loads configuration and the input table and runs the range.
func runExtract(ctx context.Context, rng extract.Range, stderr io.Writer) error {
	cfg, err := config.LoadConfig(os.Getenv(configEnv))
	if err != nil {
		return fmt.Errorf("%w: %w", wikierrors.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: stderr,
	})

	windowStart, windowEnd, err := cfg.WindowBounds()
	if err != nil {
		return err
	}

	table, err := source.Load(ctx, cfg.Input.Path)
	if err != nil {
		return err
	}
	logger.Info().
		Str("input", table.Path()).
		Int("rows", table.Len()).
		Msg("Loaded page table")

	sink, err := checkpoint.NewSink(cfg.Output.Format, cfg.Output.Compression)
	if err != nil {
		return fmt.Errorf("%w: %w", wikierrors.ErrInvalidConfig, err)
	}

	m := metrics.New()
	defer func() {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
		}
	}()

	client := wiki.NewAPIClient(wiki.ClientOptions{
		Endpoint:          cfg.API.Endpoint,
		UserAgent:         cfg.API.UserAgent,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Metrics:           m,
	})
	window := wiki.Window{Start: windowStart, End: windowEnd}
	fetcher := wiki.NewFetcher(client, window, cfg.API.PageSize,
		wiki.WithLogger(logging.NewLogger("fetcher")),
		wiki.WithMetrics(m),
	)

	runner := extract.NewRunner(extract.Options{
		Source:    table,
		Fetcher:   fetcher,
		Sink:      sink,
		OutputDir: cfg.Output.Dir,
		Prefix:    cfg.Output.Prefix,
		Progress:  stderr,
		Logger:    logging.NewLogger("extract"),
		Metrics:   m,
		Version:   version,
		Params: metadata.RunParams{
			Input:       cfg.Input.Path,
			Endpoint:    cfg.API.Endpoint,
			WindowStart: window.StartParam(),
			WindowEnd:   window.EndParam(),
			PageSize:    cfg.API.PageSize,
			Format:      cfg.Output.Format,
		},
	})

	summary, err := runner.Run(ctx, rng)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Extracted %d revisions of %d titles into %d files\n",
		summary.Revisions, summary.TitlesProcessed, len(summary.Files))
	return nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, wikierrors.ErrLoad) {
		return 2 // Input table unreadable
	}

	if errors.Is(err, wikierrors.ErrWrite) {
		return 3 // Checkpoint file not written
	}

	return 1 // General error
}
