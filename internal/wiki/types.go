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

package wiki

import "time"

// TimestampLayout is the ISO-8601 UTC form used by the API for rvstart,
// rvend and revision timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z"

// DefaultPageSize is the rvlimit used when none is configured.
const DefaultPageSize = 50

// RevisionProps is the rvprop list requested for every page.
const RevisionProps = "ids|user|timestamp|flags|userid|size|slotsize|contentmodel|tags"

// Revision is one revision record as reported by the API, plus the page id
// and title stamped on it by the Fetcher.
type Revision struct {
	RevID        int64    `json:"revid"`
	ParentID     int64    `json:"parentid"`
	Minor        bool     `json:"minor"`
	User         string   `json:"user"`
	UserID       int64    `json:"userid"`
	Anon         bool     `json:"anon"`
	UserHidden   bool     `json:"userhidden"`
	Timestamp    string   `json:"timestamp"`
	Size         int64    `json:"size"`
	SlotSize     int64    `json:"slotsize"`
	ContentModel string   `json:"contentmodel"`
	Tags         []string `json:"tags"`
	PageID       int64    `json:"pageid"`
	Title        string   `json:"title"`
}

// RevisionPage is one API response worth of revisions, newest first.
type RevisionPage struct {
	Revisions []Revision
}

// Window is the time interval (Start, End] a request covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// StartParam formats the window start for the rvend parameter.
func (w Window) StartParam() string {
	return w.Start.UTC().Format(TimestampLayout)
}

// EndParam formats the window end for the rvstart parameter.
func (w Window) EndParam() string {
	return w.End.UTC().Format(TimestampLayout)
}
