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
	"fmt"
	"time"

	wikierrors "github.com/goodwiki/wikirev/internal/errors"
)

// MockCall records the arguments of one FetchRevisions call.
type MockCall struct {
	Title  string
	Window Window
	Limit  int
}

// MockClient is an in-memory Client for tests. It serves each title's
// history the way the API does: revisions with Start <= timestamp <= End,
// newest first, at most limit of them.
type MockClient struct {
	// Histories maps a title to its revisions, newest first.
	Histories map[string][]Revision

	// Error is returned by every call when set.
	Error error

	// FailOnCall makes the nth call (1-based) for a title fail with
	// ErrFetch.
	FailOnCall map[string]int

	// Track calls for verification
	CallCount int
	Calls     []MockCall

	perTitle map[string]int
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithHistory sets the revisions served for title.
func WithHistory(title string, revisions []Revision) MockClientOption {
	return func(m *MockClient) {
		m.Histories[title] = revisions
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithFailureOnCall makes the nth request for title fail.
func WithFailureOnCall(title string, n int) MockClientOption {
	return func(m *MockClient) {
		m.FailOnCall[title] = n
	}
}

// NewMockClient creates a mock client with no histories.
func NewMockClient(opts ...MockClientOption) *MockClient {
	m := &MockClient{
		Histories:  make(map[string][]Revision),
		FailOnCall: make(map[string]int),
		perTitle:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchRevisions implements the Client interface
func (m *MockClient) FetchRevisions(ctx context.Context, title string, window Window, limit int) (*RevisionPage, error) {
	m.CallCount++
	m.perTitle[title]++
	m.Calls = append(m.Calls, MockCall{Title: title, Window: window, Limit: limit})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Error != nil {
		return nil, m.Error
	}
	if n, ok := m.FailOnCall[title]; ok && n == m.perTitle[title] {
		return nil, fmt.Errorf("revisions of %q: %w: simulated failure", title, wikierrors.ErrFetch)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	page := &RevisionPage{}
	for _, rev := range m.Histories[title] {
		ts, err := time.Parse(TimestampLayout, rev.Timestamp)
		if err != nil {
			continue
		}
		if ts.After(window.End) || !ts.After(window.Start) {
			continue
		}
		page.Revisions = append(page.Revisions, rev)
		if len(page.Revisions) == limit {
			break
		}
	}
	return page, nil
}

// CallsFor returns the number of requests made for title.
func (m *MockClient) CallsFor(title string) int {
	return m.perTitle[title]
}

// GenerateRevisions builds n revisions, newest first, the newest stamped at
// newest and each older one step earlier. Revision ids descend from n.
func GenerateRevisions(n int, newest time.Time, step time.Duration) []Revision {
	revisions := make([]Revision, 0, n)
	for i := 0; i < n; i++ {
		revID := int64(n - i)
		revisions = append(revisions, Revision{
			RevID:        revID,
			ParentID:     revID - 1,
			User:         fmt.Sprintf("Editor%d", revID),
			UserID:       1000 + revID,
			Timestamp:    newest.Add(-time.Duration(i) * step).UTC().Format(TimestampLayout),
			Size:         100 * revID,
			SlotSize:     100 * revID,
			ContentModel: "wikitext",
			Tags:         []string{},
		})
	}
	return revisions
}
