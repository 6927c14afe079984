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

// Package testutil provides common test helpers for wikirev
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const apiTimestampLayout = "2006-01-02T15:04:05Z"

// Edit is one revision served by a WikiServer.
type Edit struct {
	RevID     int64
	ParentID  int64
	Minor     bool
	User      string
	UserID    int64
	Timestamp time.Time
	Size      int64
	Tags      []string
}

// GenerateEdits builds n edits, newest first, spaced step apart. Revision
// ids descend from base+n.
func GenerateEdits(base int64, n int, newest time.Time, step time.Duration) []Edit {
	edits := make([]Edit, 0, n)
	for i := 0; i < n; i++ {
		revID := base + int64(n-i)
		edits = append(edits, Edit{
			RevID:     revID,
			ParentID:  revID - 1,
			Minor:     i%2 == 1,
			User:      fmt.Sprintf("Editor%d", revID),
			UserID:    revID,
			Timestamp: newest.Add(-time.Duration(i) * step),
			Size:      1000 + revID,
			Tags:      []string{"mw-reverted"}[:i%2],
		})
	}
	return edits
}

// WikiServer is an httptest server speaking enough of the MediaWiki Action
// API prop=revisions query for the extraction pipeline.
type WikiServer struct {
	*httptest.Server

	mu        sync.Mutex
	histories map[string][]Edit
	failures  map[string]int
	requests  int32
	titles    []string
}

// NewWikiServer starts a server serving histories, keyed by title with
// edits newest first.
func NewWikiServer(t *testing.T, histories map[string][]Edit) *WikiServer {
	t.Helper()

	ws := &WikiServer{
		histories: histories,
		failures:  make(map[string]int),
	}
	ws.Server = httptest.NewServer(http.HandlerFunc(ws.handle))
	t.Cleanup(ws.Close)
	return ws
}

// FailTitle makes every request for title answer with status.
func (ws *WikiServer) FailTitle(title string, status int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.failures[title] = status
}

// RequestCount returns the number of requests served.
func (ws *WikiServer) RequestCount() int {
	return int(atomic.LoadInt32(&ws.requests))
}

// RequestedTitles returns the title of every request in arrival order.
func (ws *WikiServer) RequestedTitles() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]string(nil), ws.titles...)
}

func (ws *WikiServer) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&ws.requests, 1)
	q := r.URL.Query()
	title := q.Get("titles")

	ws.mu.Lock()
	ws.titles = append(ws.titles, title)
	status, failing := ws.failures[title]
	edits, known := ws.histories[title]
	ws.mu.Unlock()

	if failing {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
		return
	}

	if q.Get("action") != "query" || q.Get("prop") != "revisions" || q.Get("formatversion") != "2" {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{"code": "badparams", "info": "unexpected parameters"},
		})
		return
	}

	newest, err1 := time.Parse(apiTimestampLayout, q.Get("rvstart"))
	oldest, err2 := time.Parse(apiTimestampLayout, q.Get("rvend"))
	limit, err3 := strconv.Atoi(q.Get("rvlimit"))
	if err1 != nil || err2 != nil || err3 != nil {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{"code": "badtimestamp", "info": "invalid window"},
		})
		return
	}

	if !known {
		writeJSON(w, map[string]interface{}{
			"batchcomplete": true,
			"query": map[string]interface{}{
				"pages": []interface{}{
					map[string]interface{}{"ns": 0, "title": title, "missing": true},
				},
			},
		})
		return
	}

	revisions := make([]interface{}, 0, limit)
	// rvstart and rvend are both inclusive on the real API.
	for _, e := range edits {
		if e.Timestamp.After(newest) || e.Timestamp.Before(oldest) {
			continue
		}
		revisions = append(revisions, editJSON(e))
		if len(revisions) == limit {
			break
		}
	}

	writeJSON(w, map[string]interface{}{
		"batchcomplete": true,
		"query": map[string]interface{}{
			"pages": []interface{}{
				map[string]interface{}{
					"pageid":    len(title),
					"ns":        0,
					"title":     title,
					"revisions": revisions,
				},
			},
		},
	})
}

func editJSON(e Edit) map[string]interface{} {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	rev := map[string]interface{}{
		"revid":     e.RevID,
		"parentid":  e.ParentID,
		"minor":     e.Minor,
		"user":      e.User,
		"userid":    e.UserID,
		"timestamp": e.Timestamp.UTC().Format(apiTimestampLayout),
		"size":      e.Size,
		"slots": map[string]interface{}{
			"main": map[string]interface{}{"size": e.Size, "contentmodel": "wikitext"},
		},
		"tags": tags,
	}
	if e.UserID == 0 {
		rev["anon"] = true
	}
	return rev
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))
	t.Cleanup(server.Close)
	return server
}
