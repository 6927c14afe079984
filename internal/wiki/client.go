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

import "context"

// Client defines the interface for fetching revisions from the API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchRevisions retrieves up to limit revisions of title inside window,
	// newest first. A page that does not exist yields an empty page, not an
	// error. Errors wrap wikierrors.ErrFetch.
	FetchRevisions(ctx context.Context, title string, window Window, limit int) (*RevisionPage, error)
}
