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

// Package metadata records what an extraction run did.
//
// A Tracker is created at the start of a run and fed every processed title.
// At the end it produces a RunMetadata record which is saved next to the
// checkpoint files as run-metadata-<start>-<end>-<unix>.json. The record
// lists the files written and the fetch statistics, so an operator can tell
// which ranges finished and how many pages degraded.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/goodwiki/wikirev/internal/output"
	"github.com/goodwiki/wikirev/internal/wiki"
)

// Tracker collects statistics during a run.
type Tracker struct {
	startTime  time.Time
	titles     int
	empty      int
	revisions  int
	oldest     string
	newest     string
	fetchStats wiki.FetchStats
	files      []string
	now        func() time.Time
}

// New creates a tracker started at the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		now:       time.Now,
	}
}

// RecordTitle adds the revisions gathered for one title.
func (t *Tracker) RecordTitle(revisions []wiki.Revision) {
	t.titles++
	if len(revisions) == 0 {
		t.empty++
		return
	}
	t.revisions += len(revisions)

	// Timestamps share one fixed-width UTC layout, so they order as strings.
	for _, rev := range revisions {
		if t.oldest == "" || rev.Timestamp < t.oldest {
			t.oldest = rev.Timestamp
		}
		if rev.Timestamp > t.newest {
			t.newest = rev.Timestamp
		}
	}
}

// SetFetchStats records the fetcher counters.
func (t *Tracker) SetFetchStats(stats wiki.FetchStats) {
	t.fetchStats = stats
}

// AddFile records a checkpoint file.
func (t *Tracker) AddFile(path string) {
	t.files = append(t.files, filepath.Base(path))
}

// TitlesProcessed returns the number of titles recorded.
func (t *Tracker) TitlesProcessed() int {
	return t.titles
}

// TotalRevisions returns the number of revisions recorded.
func (t *Tracker) TotalRevisions() int {
	return t.revisions
}

// GenerateMetadata builds the run record. completed is false when the run
// stopped before the end of its range.
func (t *Tracker) GenerateMetadata(version string, params RunParams, completed bool) *RunMetadata {
	completedAt := t.now()

	files := t.files
	if files == nil {
		files = []string{}
	}

	return &RunMetadata{
		Version:    version,
		RunID:      fmt.Sprintf("%d-%d-%d", params.StartIdx, params.EndIdx, t.startTime.Unix()),
		Parameters: params,
		Files:      files,
		Results: RunResults{
			Completed:       completed,
			TitlesProcessed: t.titles,
			TitlesEmpty:     t.empty,
			TotalRevisions:  t.revisions,
			OldestRevision:  t.oldest,
			NewestRevision:  t.newest,
			APICallCount:    t.fetchStats.Requests,
			Degradations:    t.fetchStats.Degradations,
			GuardStops:      t.fetchStats.GuardStops,
			Overlaps:        t.fetchStats.Overlaps,
			Duration:        completedAt.Sub(t.startTime).String(),
			StartedAt:       t.startTime,
			CompletedAt:     completedAt,
		},
	}
}

// FileName returns the base name of the metadata file for a record.
func FileName(metadata *RunMetadata) string {
	return fmt.Sprintf("run-metadata-%d-%d-%d.json",
		metadata.Parameters.StartIdx, metadata.Parameters.EndIdx, metadata.Results.StartedAt.Unix())
}

// SaveMetadata writes the record to dir atomically and returns its path.
func SaveMetadata(metadata *RunMetadata, dir string) (string, error) {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName(metadata))
	if err := output.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}
	return path, nil
}

// WriteMetadataToWriter serializes metadata to indented JSON.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
