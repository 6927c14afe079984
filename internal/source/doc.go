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

// Package source loads the list of articles to process.
//
// The input is a Parquet file with at least a "title" string column and a
// "pageid" integer column. Files written by pandas or polars are accepted:
// titles may be utf8, large_utf8 or utf8_view, page ids any integer width.
// The whole file is read once and kept in memory as a read-only Table
// addressed by row index.
package source
