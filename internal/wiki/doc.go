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

// Package wiki fetches revision metadata from the MediaWiki Action API.
//
// The package includes:
//   - A Client interface for fetching a single page of revisions
//   - An HTTP implementation that parses responses with gjson
//   - A Fetcher that walks a title's revision history backward in time,
//     page by page, until the configured window is exhausted
//   - A mock client for testing
//
// Basic usage:
//
//	client := wiki.NewAPIClient(wiki.ClientOptions{
//	    Endpoint:  "https://en.wikipedia.org/w/api.php",
//	    UserAgent: "wikirev/1.0 (ops@example.org)",
//	})
//	fetcher := wiki.NewFetcher(client, window, 50)
//	revisions := fetcher.FetchAllRevisions(ctx, "Alan Turing", 1208)
//
// The API has no page token for revisions. The Fetcher moves its cursor by
// reusing the timestamp of the oldest revision of a page as the new window
// end, so that revision is returned again at the top of the next page. The
// duplicate is kept and counted, not removed.
package wiki
