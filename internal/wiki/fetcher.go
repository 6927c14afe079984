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

import (
	"context"
	"time"

	"github.com/goodwiki/wikirev/internal/apierror"
	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/rs/zerolog"
)

// PageResult is the outcome of one page request. It is produced even when
// the request failed: Err is set, Revisions is empty and Exhausted is true,
// which ends the walk for the title.
type PageResult struct {
	Revisions []Revision
	Exhausted bool
	Err       error
}

// FetchStats counts what a Fetcher did across all titles.
type FetchStats struct {
	Requests     int
	Degradations int
	GuardStops   int
	Overlaps     int
}

// Fetcher walks the revision history of one title at a time, from the
// window end back to the window start.
type Fetcher struct {
	client   Client
	window   Window
	pageSize int
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	stats    FetchStats
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger used for degradations and debug output.
func WithLogger(logger zerolog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithMetrics sets the collectors updated by the Fetcher.
func WithMetrics(m *metrics.Metrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// NewFetcher creates a Fetcher over window using pages of pageSize records.
func NewFetcher(client Client, window Window, pageSize int, opts ...FetcherOption) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	f := &Fetcher{
		client:   client,
		window:   window,
		pageSize: pageSize,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Stats returns the counters accumulated so far.
func (f *Fetcher) Stats() FetchStats {
	return f.stats
}

// FetchAllRevisions returns every revision of title in the window, newest
// first, each stamped with pageID and title. Results are the concatenation
// of the pages in request order: the boundary revision shared by two
// consecutive pages appears twice. Fetch failures never surface; the walk
// stops and the revisions gathered so far are returned.
func (f *Fetcher) FetchAllRevisions(ctx context.Context, title string, pageID int64) []Revision {
	window := f.window
	revisions := make([]Revision, 0, f.pageSize)
	var boundaryRevID int64

	for {
		result := f.fetchPage(ctx, title, window)
		if result.Err != nil {
			f.degrade(title, pageID, window, result.Err)
			return revisions
		}

		if boundaryRevID != 0 && len(result.Revisions) > 0 && result.Revisions[0].RevID == boundaryRevID {
			f.stats.Overlaps++
			if f.metrics != nil {
				f.metrics.BoundaryOverlaps.Inc()
			}
		}

		for _, rev := range result.Revisions {
			rev.PageID = pageID
			rev.Title = title
			revisions = append(revisions, rev)
		}

		if result.Exhausted {
			return revisions
		}

		last := result.Revisions[len(result.Revisions)-1]
		nextEnd, err := time.Parse(TimestampLayout, last.Timestamp)
		if err != nil || !nextEnd.Before(window.End) {
			f.stats.GuardStops++
			if f.metrics != nil {
				f.metrics.PaginationGuard.Inc()
			}
			f.logger.Warn().
				Str("title", title).
				Int64("pageid", pageID).
				Str("window_end", window.EndParam()).
				Str("last_timestamp", last.Timestamp).
				Int("revisions", len(revisions)).
				Msg("Window end did not move backward, stopping pagination")
			return revisions
		}

		f.logger.Debug().
			Str("title", title).
			Str("window_end", window.EndParam()).
			Str("next_end", last.Timestamp).
			Int("page_len", len(result.Revisions)).
			Msg("Fetching next revision page")

		boundaryRevID = last.RevID
		window.End = nextEnd
	}
}

// fetchPage issues one request and folds every failure into the result.
func (f *Fetcher) fetchPage(ctx context.Context, title string, window Window) PageResult {
	f.stats.Requests++

	page, err := f.client.FetchRevisions(ctx, title, window, f.pageSize)
	if err != nil {
		return PageResult{Exhausted: true, Err: err}
	}
	if page == nil {
		return PageResult{Exhausted: true}
	}

	return PageResult{
		Revisions: page.Revisions,
		Exhausted: len(page.Revisions) < f.pageSize,
	}
}

func (f *Fetcher) degrade(title string, pageID int64, window Window, err error) {
	class := apierror.Classify(err)
	f.stats.Degradations++
	if f.metrics != nil {
		f.metrics.FetchDegradations.WithLabelValues(class).Inc()
	}
	f.logger.Warn().
		Err(err).
		Str("title", title).
		Int64("pageid", pageID).
		Str("window_start", window.StartParam()).
		Str("window_end", window.EndParam()).
		Str("error_class", class).
		Msg("Revision page unavailable, keeping revisions fetched so far")
}
