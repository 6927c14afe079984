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

package metadata

import (
	"time"
)

// RunMetadata is the audit record of one extraction run. It describes what
// was requested and what was produced; it is not read back by later runs.
type RunMetadata struct {
	Version    string     `json:"wikirev_version"`
	RunID      string     `json:"run_id"`
	Parameters RunParams  `json:"parameters"`
	Results    RunResults `json:"results"`
	Files      []string   `json:"files"`
}

// RunParams captures the inputs of a run.
type RunParams struct {
	Input       string `json:"input"`
	Endpoint    string `json:"endpoint"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	StartIdx    int    `json:"start_idx"`
	EndIdx      int    `json:"end_idx"`
	Checkpoint  int    `json:"checkpoint"`
	PageSize    int    `json:"page_size"`
	Format      string `json:"format"`
}

// RunResults holds the statistics of a run.
type RunResults struct {
	Completed       bool      `json:"completed"`
	TitlesProcessed int       `json:"titles_processed"`
	TitlesEmpty     int       `json:"titles_without_revisions"`
	TotalRevisions  int       `json:"total_revisions"`
	OldestRevision  string    `json:"oldest_revision_timestamp,omitempty"`
	NewestRevision  string    `json:"newest_revision_timestamp,omitempty"`
	APICallCount    int       `json:"api_calls_made"`
	Degradations    int       `json:"degraded_pages"`
	GuardStops      int       `json:"pagination_guard_stops"`
	Overlaps        int       `json:"boundary_overlaps"`
	Duration        string    `json:"duration"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}
