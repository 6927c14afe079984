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

// Package main implements the wikirev command-line interface.
// wikirev reads a table of article titles and page ids, fetches the
// revision history of every title in an index range from the MediaWiki
// Action API, and writes the revisions to numbered checkpoint files.
//
// Usage:
//
//	wikirev --start_idx <n> --end_idx <m> [--checkpoint <k>]
//
// The range [start_idx, end_idx) selects rows of the input table. A file is
// written after every k titles (default 1000) and after the last title.
// Everything else (endpoint, time window, input and output paths, output
// format, logging) comes from the configuration file named by
// WIKIREV_CONFIG, or .wikirev.yaml, and from WIKIREV_* environment
// variables.
//
// Example:
//
//	WIKIREV_OUTPUT_DIR=./out wikirev --start_idx 0 --end_idx 2500
//
// Exit codes:
//   - 0: Success
//   - 1: General error (bad range, bad configuration, interrupted)
//   - 2: The input table could not be loaded
//   - 3: A checkpoint file could not be written
package main
