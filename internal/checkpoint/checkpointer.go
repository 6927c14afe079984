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

package checkpoint

import (
	"fmt"
	"path/filepath"

	wikierrors "github.com/goodwiki/wikirev/internal/errors"
	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/goodwiki/wikirev/internal/wiki"
	"github.com/rs/zerolog"
)

// DefaultSize is the number of titles between flushes.
const DefaultSize = 1000

// Options configures a Checkpointer.
type Options struct {
	Dir    string
	Prefix string

	// Start and End are the title range [Start, End) of the run. They
	// appear in every file name.
	Start int
	End   int

	// Size is the number of titles between flushes.
	Size int

	Sink    Sink
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// FlushResult describes one flush.
type FlushResult struct {
	Flushed bool
	Path    string
	Records int
}

// Checkpointer accumulates revisions across titles and writes them out at
// checkpoint boundaries. It is not safe for concurrent use.
type Checkpointer struct {
	opts    Options
	buffer  Buffer
	written []string
}

// New creates a Checkpointer with an empty buffer.
func New(opts Options) *Checkpointer {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Prefix == "" {
		opts.Prefix = "revisions"
	}
	if opts.Sink == nil {
		opts.Sink = newDefaultParquetSink()
	}
	return &Checkpointer{opts: opts}
}

// RecordProcessed appends the records of the title at titleIndex.
func (c *Checkpointer) RecordProcessed(titleIndex int, records []wiki.Revision) {
	c.buffer.Append(records...)
	if c.opts.Metrics != nil {
		c.opts.Metrics.RevisionsFetched.Add(float64(len(records)))
		c.opts.Metrics.BufferedRecords.Set(float64(c.buffer.Len()))
	}
	c.opts.Logger.Debug().
		Int("index", titleIndex).
		Int("records", len(records)).
		Int("buffered", c.buffer.Len()).
		Msg("Buffered title revisions")
}

// MaybeFlush writes the buffer if titleIndex is a checkpoint boundary.
func (c *Checkpointer) MaybeFlush(titleIndex int) (FlushResult, error) {
	if !ShouldFlush(titleIndex, c.opts.End, c.opts.Size) {
		return FlushResult{}, nil
	}
	return c.FlushAndClear(titleIndex)
}

// FlushAndClear writes every buffered record to the file named after
// lastTitleIndex+1 and empties the buffer. On failure the buffer is kept
// and the error wraps ErrWrite.
func (c *Checkpointer) FlushAndClear(lastTitleIndex int) (FlushResult, error) {
	name := FileName(c.opts.Prefix, c.opts.Start, c.opts.End, lastTitleIndex+1, c.opts.Sink.Extension())
	path := filepath.Join(c.opts.Dir, name)
	count := c.buffer.Len()

	if err := c.opts.Sink.Write(path, c.buffer.Records()); err != nil {
		c.opts.Logger.Error().
			Err(err).
			Str("path", path).
			Int("records", count).
			Msg("Checkpoint write failed, keeping buffer")
		return FlushResult{}, fmt.Errorf("%w: %s: %w", wikierrors.ErrWrite, path, err)
	}

	c.buffer.Reset()
	c.written = append(c.written, path)

	if c.opts.Metrics != nil {
		c.opts.Metrics.CheckpointFlushes.Inc()
		c.opts.Metrics.CheckpointRecords.Add(float64(count))
		c.opts.Metrics.BufferedRecords.Set(0)
	}
	c.opts.Logger.Info().
		Str("path", path).
		Int("records", count).
		Int("processed", lastTitleIndex+1).
		Msg("Checkpoint written")

	return FlushResult{Flushed: true, Path: path, Records: count}, nil
}

// Pending returns the number of records not yet written.
func (c *Checkpointer) Pending() int {
	return c.buffer.Len()
}

// Files returns the paths written so far, in order.
func (c *Checkpointer) Files() []string {
	return append([]string(nil), c.written...)
}
