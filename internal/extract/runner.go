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

// Package extract drives an extraction run: for every title of an index
// range it fetches the title's revisions, buffers them, and writes a
// checkpoint file at every boundary.
package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/goodwiki/wikirev/internal/checkpoint"
	wikierrors "github.com/goodwiki/wikirev/internal/errors"
	"github.com/goodwiki/wikirev/internal/metadata"
	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/goodwiki/wikirev/internal/source"
	"github.com/goodwiki/wikirev/internal/wiki"
	"github.com/rs/zerolog"
)

// PageSource gives indexed access to the titles to process.
type PageSource interface {
	Len() int
	Row(i int) (source.PageRef, error)
}

// RevisionFetcher returns every revision of one title. It never fails; a
// title whose history cannot be fetched yields fewer or no revisions.
type RevisionFetcher interface {
	FetchAllRevisions(ctx context.Context, title string, pageID int64) []wiki.Revision
	Stats() wiki.FetchStats
}

// Range is the half-open title index range [Start, End) of a run and the
// number of titles between checkpoint files.
type Range struct {
	Start      int
	End        int
	Checkpoint int
}

// Validate checks the range against a table of tableLen rows.
func (r Range) Validate(tableLen int) error {
	switch {
	case r.Start < 0:
		return fmt.Errorf("%w: start_idx %d is negative", wikierrors.ErrInvalidRange, r.Start)
	case r.End <= r.Start:
		return fmt.Errorf("%w: end_idx %d must be greater than start_idx %d", wikierrors.ErrInvalidRange, r.End, r.Start)
	case r.End > tableLen:
		return fmt.Errorf("%w: end_idx %d exceeds table length %d", wikierrors.ErrInvalidRange, r.End, tableLen)
	case r.Checkpoint <= 0:
		return fmt.Errorf("%w: checkpoint %d must be positive", wikierrors.ErrInvalidRange, r.Checkpoint)
	}
	return nil
}

// Options configures a Runner.
type Options struct {
	Source  PageSource
	Fetcher RevisionFetcher
	Sink    checkpoint.Sink

	OutputDir string
	Prefix    string

	// Progress receives one human-readable line per title and per
	// checkpoint. Nil discards them.
	Progress io.Writer

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Version and Params are copied into the run metadata.
	Version string
	Params  metadata.RunParams

	// SkipMetadata disables the run metadata file.
	SkipMetadata bool
}

// Summary describes a finished or interrupted run.
type Summary struct {
	TitlesProcessed int
	Revisions       int
	Files           []string
	MetadataPath    string
	Discarded       int
	Stats           wiki.FetchStats
}

// Runner executes extraction runs.
type Runner struct {
	opts Options
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Runner{opts: opts}
}

// Run processes every title of rng in ascending order. Titles are handled
// one at a time; revisions are written only at checkpoint boundaries.
//
// A write failure stops the run with an error wrapping ErrWrite. A canceled
// context stops the run between titles: records buffered since the last
// checkpoint are discarded and the context error is returned.
func (r *Runner) Run(ctx context.Context, rng Range) (*Summary, error) {
	tableLen := r.opts.Source.Len()
	if err := rng.Validate(tableLen); err != nil {
		return nil, err
	}

	logger := r.opts.Logger.With().
		Int("start_idx", rng.Start).
		Int("end_idx", rng.End).
		Int("checkpoint", rng.Checkpoint).
		Logger()

	cp := checkpoint.New(checkpoint.Options{
		Dir:     r.opts.OutputDir,
		Prefix:  r.opts.Prefix,
		Start:   rng.Start,
		End:     rng.End,
		Size:    rng.Checkpoint,
		Sink:    r.opts.Sink,
		Logger:  logger,
		Metrics: r.opts.Metrics,
	})
	tracker := metadata.New()
	summary := &Summary{}

	logger.Info().Int("titles", rng.End-rng.Start).Msg("Starting extraction")

	var runErr error
	for i := rng.Start; i < rng.End; i++ {
		if err := ctx.Err(); err != nil {
			runErr = r.interrupted(logger, cp, summary, err)
			break
		}

		ref, err := r.opts.Source.Row(i)
		if err != nil {
			runErr = fmt.Errorf("%w: %w", wikierrors.ErrLoad, err)
			break
		}

		revisions := r.opts.Fetcher.FetchAllRevisions(ctx, ref.Title, ref.PageID)
		if err := ctx.Err(); err != nil {
			// The title may be incomplete; it is not recorded.
			runErr = r.interrupted(logger, cp, summary, err)
			break
		}

		cp.RecordProcessed(i, revisions)
		tracker.RecordTitle(revisions)
		summary.TitlesProcessed++
		summary.Revisions += len(revisions)
		if r.opts.Metrics != nil {
			r.opts.Metrics.TitlesProcessed.Inc()
		}

		fmt.Fprintf(r.opts.Progress, "Processed %d/%d: %s with %d revisions.\n", i+1, tableLen, ref.Title, len(revisions))

		res, err := cp.MaybeFlush(i)
		if err != nil {
			runErr = err
			break
		}
		if res.Flushed {
			tracker.AddFile(res.Path)
			fmt.Fprintf(r.opts.Progress, "Checkpoint reached at %d. Data saved.\n", i+1)
		}
	}

	summary.Files = cp.Files()
	summary.Stats = r.opts.Fetcher.Stats()
	tracker.SetFetchStats(summary.Stats)

	if !r.opts.SkipMetadata {
		params := r.opts.Params
		params.StartIdx = rng.Start
		params.EndIdx = rng.End
		params.Checkpoint = rng.Checkpoint

		meta := tracker.GenerateMetadata(r.opts.Version, params, runErr == nil)
		path, err := metadata.SaveMetadata(meta, r.opts.OutputDir)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to save run metadata")
		} else {
			summary.MetadataPath = path
		}
	}

	if runErr != nil {
		return summary, runErr
	}

	logger.Info().
		Int("titles", summary.TitlesProcessed).
		Int("revisions", summary.Revisions).
		Int("files", len(summary.Files)).
		Int("degraded_pages", summary.Stats.Degradations).
		Msg("Extraction complete")

	return summary, nil
}

func (r *Runner) interrupted(logger zerolog.Logger, cp *checkpoint.Checkpointer, summary *Summary, cause error) error {
	summary.Discarded = cp.Pending()
	logger.Warn().
		Err(cause).
		Int("titles_processed", summary.TitlesProcessed).
		Int("discarded_records", summary.Discarded).
		Msg("Extraction interrupted, discarding records since the last checkpoint")
	return fmt.Errorf("extraction interrupted after %d titles: %w", summary.TitlesProcessed, cause)
}
