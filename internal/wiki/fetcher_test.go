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
	"errors"
	"testing"
	"time"

	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Compile-time check that MockClient implements Client
var _ Client = (*MockClient)(nil)

var newestEdit = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

func TestFetcher_SinglePage(t *testing.T) {
	history := GenerateRevisions(3, newestEdit, time.Hour)
	mock := NewMockClient(WithHistory("Ada Lovelace", history))
	fetcher := NewFetcher(mock, testWindow(), 50)

	revisions := fetcher.FetchAllRevisions(context.Background(), "Ada Lovelace", 974)

	if len(revisions) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revisions))
	}
	if mock.CallCount != 1 {
		t.Errorf("expected exactly 1 request, got %d", mock.CallCount)
	}
	for i, rev := range revisions {
		if rev.PageID != 974 || rev.Title != "Ada Lovelace" {
			t.Errorf("revision %d not stamped: pageid=%d title=%q", i, rev.PageID, rev.Title)
		}
		if rev.RevID != history[i].RevID {
			t.Errorf("revision %d out of order: got %d want %d", i, rev.RevID, history[i].RevID)
		}
	}
}

func TestFetcher_EmptyHistory(t *testing.T) {
	mock := NewMockClient()
	fetcher := NewFetcher(mock, testWindow(), 50)

	revisions := fetcher.FetchAllRevisions(context.Background(), "Quiet Page", 1)

	if len(revisions) != 0 {
		t.Errorf("expected no revisions, got %d", len(revisions))
	}
	if mock.CallCount != 1 {
		t.Errorf("expected 1 request, got %d", mock.CallCount)
	}
}

func TestFetcher_MultiPageKeepsBoundaryOverlap(t *testing.T) {
	// 5 distinct revisions with page size 3: page 1 returns revs 5,4,3;
	// page 2 starts again at rev 3 and returns 3,2,1; page 3 returns 1.
	history := GenerateRevisions(5, newestEdit, time.Hour)
	mock := NewMockClient(WithHistory("Grace Hopper", history))
	m := metrics.New()
	fetcher := NewFetcher(mock, testWindow(), 3, WithMetrics(m))

	revisions := fetcher.FetchAllRevisions(context.Background(), "Grace Hopper", 42)

	wantIDs := []int64{5, 4, 3, 3, 2, 1, 1}
	if len(revisions) != len(wantIDs) {
		t.Fatalf("expected %d revisions, got %d", len(wantIDs), len(revisions))
	}
	for i, id := range wantIDs {
		if revisions[i].RevID != id {
			t.Errorf("position %d: got revid %d, want %d", i, revisions[i].RevID, id)
		}
	}

	if mock.CallsFor("Grace Hopper") != 3 {
		t.Errorf("expected 3 requests, got %d", mock.CallsFor("Grace Hopper"))
	}
	if got := mock.Calls[1].Window.EndParam(); got != history[2].Timestamp {
		t.Errorf("second window end = %s, want %s", got, history[2].Timestamp)
	}
	if got := mock.Calls[1].Window.StartParam(); got != "2023-01-01T00:00:00Z" {
		t.Errorf("window start moved: %s", got)
	}

	stats := fetcher.Stats()
	if stats.Overlaps != 2 {
		t.Errorf("expected 2 overlaps, got %d", stats.Overlaps)
	}
	if got := testutil.ToFloat64(m.BoundaryOverlaps); got != 2 {
		t.Errorf("overlap counter = %v, want 2", got)
	}
}

func TestFetcher_ExactMultipleOfPageSize(t *testing.T) {
	// 4 revisions with page size 2: 4,3 | 3,2 | 2,1 | 1
	history := GenerateRevisions(4, newestEdit, time.Minute)
	mock := NewMockClient(WithHistory("Edge", history))
	fetcher := NewFetcher(mock, testWindow(), 2)

	revisions := fetcher.FetchAllRevisions(context.Background(), "Edge", 7)

	if len(revisions) != 7 {
		t.Errorf("expected 7 revisions, got %d", len(revisions))
	}
	if mock.CallCount != 4 {
		t.Errorf("expected 4 requests, got %d", mock.CallCount)
	}
}

func TestFetcher_Degradation(t *testing.T) {
	tests := []struct {
		name      string
		failOn    int
		wantCount int
	}{
		{name: "first page fails", failOn: 1, wantCount: 0},
		{name: "second page fails", failOn: 2, wantCount: 3},
		{name: "third page fails", failOn: 3, wantCount: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := GenerateRevisions(10, newestEdit, time.Hour)
			mock := NewMockClient(
				WithHistory("Flaky", history),
				WithFailureOnCall("Flaky", tt.failOn),
			)
			m := metrics.New()
			fetcher := NewFetcher(mock, testWindow(), 3, WithMetrics(m))

			revisions := fetcher.FetchAllRevisions(context.Background(), "Flaky", 9)

			if len(revisions) != tt.wantCount {
				t.Errorf("expected %d revisions, got %d", tt.wantCount, len(revisions))
			}
			if mock.CallCount != tt.failOn {
				t.Errorf("walk continued after failure: %d requests", mock.CallCount)
			}
			if fetcher.Stats().Degradations != 1 {
				t.Errorf("expected 1 degradation, got %d", fetcher.Stats().Degradations)
			}
			if got := testutil.ToFloat64(m.FetchDegradations.WithLabelValues("unknown")); got != 1 {
				t.Errorf("degradation counter = %v, want 1", got)
			}
		})
	}
}

func TestFetcher_ErrorNeverEscapes(t *testing.T) {
	mock := NewMockClient(WithError(errors.New("dial tcp: connection refused")))
	fetcher := NewFetcher(mock, testWindow(), 50)

	revisions := fetcher.FetchAllRevisions(context.Background(), "Offline", 1)
	if revisions == nil {
		t.Error("expected empty non-nil slice")
	}
	if len(revisions) != 0 {
		t.Errorf("expected 0 revisions, got %d", len(revisions))
	}
}

func TestFetcher_StuckTimestampGuard(t *testing.T) {
	// Three revisions in the same second with page size 2 can never move the
	// window end past that second.
	stamp := newestEdit.Format(TimestampLayout)
	history := []Revision{
		{RevID: 3, Timestamp: stamp},
		{RevID: 2, Timestamp: stamp},
		{RevID: 1, Timestamp: stamp},
	}
	mock := NewMockClient(WithHistory("Bot Storm", history))
	m := metrics.New()
	fetcher := NewFetcher(mock, testWindow(), 2, WithMetrics(m))

	revisions := fetcher.FetchAllRevisions(context.Background(), "Bot Storm", 5)

	if mock.CallCount != 2 {
		t.Errorf("expected 2 requests before the guard stops, got %d", mock.CallCount)
	}
	if len(revisions) != 4 {
		t.Errorf("expected 4 revisions, got %d", len(revisions))
	}
	if fetcher.Stats().GuardStops != 1 {
		t.Errorf("expected 1 guard stop, got %d", fetcher.Stats().GuardStops)
	}
	if got := testutil.ToFloat64(m.PaginationGuard); got != 1 {
		t.Errorf("guard counter = %v, want 1", got)
	}
}

func TestFetcher_UnparsableTimestampStops(t *testing.T) {
	history := []Revision{
		{RevID: 2, Timestamp: "2023-05-01T00:00:00Z"},
		{RevID: 1, Timestamp: "2023-04-01T00:00:00Z"},
	}
	mock := &garbledClient{revisions: history}
	fetcher := NewFetcher(mock, testWindow(), 2)

	revisions := fetcher.FetchAllRevisions(context.Background(), "Garbled", 1)

	if len(revisions) != 2 {
		t.Errorf("expected 2 revisions, got %d", len(revisions))
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 request, got %d", mock.calls)
	}
	if fetcher.Stats().GuardStops != 1 {
		t.Errorf("expected guard stop, got %+v", fetcher.Stats())
	}
}

func TestFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history := GenerateRevisions(3, newestEdit, time.Hour)
	mock := NewMockClient(WithHistory("Canceled", history))
	m := metrics.New()
	fetcher := NewFetcher(mock, testWindow(), 50, WithMetrics(m))

	revisions := fetcher.FetchAllRevisions(ctx, "Canceled", 1)
	if len(revisions) != 0 {
		t.Errorf("expected no revisions, got %d", len(revisions))
	}
	if got := testutil.ToFloat64(m.FetchDegradations.WithLabelValues("canceled")); got != 1 {
		t.Errorf("canceled counter = %v, want 1", got)
	}
}

func TestMockClient_WindowBounds(t *testing.T) {
	window := testWindow()
	history := []Revision{
		{RevID: 4, Timestamp: window.End.Add(time.Hour).Format(TimestampLayout)},
		{RevID: 3, Timestamp: window.End.Format(TimestampLayout)},
		{RevID: 2, Timestamp: window.Start.Add(time.Second).Format(TimestampLayout)},
		{RevID: 1, Timestamp: window.Start.Format(TimestampLayout)},
	}
	mock := NewMockClient(WithHistory("Bounds", history))

	page, err := mock.FetchRevisions(context.Background(), "Bounds", window, 50)
	if err != nil {
		t.Fatalf("FetchRevisions failed: %v", err)
	}
	var got []int64
	for _, rev := range page.Revisions {
		got = append(got, rev.RevID)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Errorf("revids = %v, want [3 2]", got)
	}
	if mock.CallsFor("Bounds") != 1 {
		t.Errorf("expected 1 request, got %d", mock.CallsFor("Bounds"))
	}
}

// garbledClient returns a full page whose last timestamp cannot be parsed.
type garbledClient struct {
	revisions []Revision
	calls     int
}

func (g *garbledClient) FetchRevisions(ctx context.Context, title string, window Window, limit int) (*RevisionPage, error) {
	g.calls++
	revs := append([]Revision(nil), g.revisions...)
	revs[len(revs)-1].Timestamp = "not-a-time"
	return &RevisionPage{Revisions: revs}, nil
}
