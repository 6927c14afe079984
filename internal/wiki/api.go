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
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goodwiki/wikirev/internal/apierror"
	wikierrors "github.com/goodwiki/wikirev/internal/errors"
	"github.com/goodwiki/wikirev/internal/metrics"
	"github.com/tidwall/gjson"
)

// maxResponseBytes caps how much of a response body is read. A page of 500
// revisions with tags stays far below this.
const maxResponseBytes = 16 << 20

// revisionsPath is the gjson path to the revision array of the first page
// in a formatversion=2 response.
const revisionsPath = "query.pages.0.revisions"

// ClientOptions configures an APIClient.
type ClientOptions struct {
	// Endpoint is the api.php URL, e.g. https://en.wikipedia.org/w/api.php.
	Endpoint string

	// UserAgent is sent with every request. Wikimedia blocks generic agents.
	UserAgent string

	// Timeout bounds a single request. Zero means 30 seconds.
	Timeout time.Duration

	// RequestsPerSecond throttles requests client side. Zero disables it.
	RequestsPerSecond float64

	// Metrics receives request counters. Optional.
	Metrics *metrics.Metrics

	// Transport overrides the base round tripper (tests). Optional.
	Transport http.RoundTripper
}

// APIClient implements Client against the MediaWiki Action API.
type APIClient struct {
	endpoint string
	http     *http.Client
	metrics  *metrics.Metrics
}

// NewAPIClient creates an APIClient. The HTTP client is configured with:
//   - the configured User-Agent on every request
//   - an optional client-side rate limit
//   - a per-request timeout
//   - connection pooling for a single host
func NewAPIClient(opts ClientOptions) *APIClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        4,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	return &APIClient{
		endpoint: opts.Endpoint,
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(base, opts.UserAgent, opts.RequestsPerSecond),
		},
		metrics: opts.Metrics,
	}
}

// FetchRevisions issues one prop=revisions query. rvstart carries the window
// end and rvend the window start because the API walks newest to oldest.
func (c *APIClient) FetchRevisions(ctx context.Context, title string, window Window, limit int) (*RevisionPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "revisions")
	params.Set("titles", title)
	params.Set("rvprop", RevisionProps)
	params.Set("rvslots", "main")
	params.Set("formatversion", "2")
	params.Set("format", "json")
	params.Set("rvlimit", strconv.Itoa(limit))
	params.Set("rvstart", window.EndParam())
	params.Set("rvend", window.StartParam())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w: %w", title, wikierrors.ErrFetch, err)
	}

	start := time.Now()
	body, err := c.do(req)
	c.observe(start, err)
	if err != nil {
		return nil, fmt.Errorf("revisions of %q: %w: %w", title, wikierrors.ErrFetch, err)
	}

	revisions, err := parseRevisions(body)
	if err != nil {
		return nil, fmt.Errorf("revisions of %q: %w: %w", title, wikierrors.ErrFetch, err)
	}

	return &RevisionPage{Revisions: revisions}, nil
}

// do executes the request and returns the body of a 2xx response.
func (c *APIClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &apierror.StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *APIClient) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.APIRequestDuration.Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.APIRequests.WithLabelValues(outcome).Inc()
}

// parseRevisions extracts the revision array from a response body. A body
// without the revisions path (missing page, empty history) yields no
// revisions and no error.
func parseRevisions(body []byte) ([]Revision, error) {
	if !gjson.ValidBytes(body) {
		return nil, &apierror.DecodeError{Snippet: snippet(body)}
	}

	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, &apierror.APIError{
			Code: apiErr.Get("code").String(),
			Info: apiErr.Get("info").String(),
		}
	}

	result := gjson.GetBytes(body, revisionsPath)
	if !result.IsArray() {
		return nil, nil
	}

	items := result.Array()
	revisions := make([]Revision, 0, len(items))
	for _, item := range items {
		revisions = append(revisions, convertRevision(item))
	}
	return revisions, nil
}

// convertRevision maps one revision object to a Revision. Fields the API
// omits (hidden users, anonymous edits) keep their zero values.
func convertRevision(item gjson.Result) Revision {
	rev := Revision{
		RevID:        item.Get("revid").Int(),
		ParentID:     item.Get("parentid").Int(),
		Minor:        item.Get("minor").Bool(),
		User:         item.Get("user").String(),
		UserID:       item.Get("userid").Int(),
		Anon:         item.Get("anon").Bool(),
		UserHidden:   item.Get("userhidden").Bool(),
		Timestamp:    item.Get("timestamp").String(),
		Size:         item.Get("size").Int(),
		SlotSize:     item.Get("slots.main.size").Int(),
		ContentModel: item.Get("slots.main.contentmodel").String(),
	}

	tags := item.Get("tags").Array()
	rev.Tags = make([]string, 0, len(tags))
	for _, tag := range tags {
		rev.Tags = append(rev.Tags, tag.String())
	}

	return rev
}

func snippet(body []byte) string {
	const max = 64
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
