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

// Package checkpoint buffers revision records and periodically writes them
// to disk.
//
// A Checkpointer owns one Buffer for a run over the title range
// [start, end). After every title the caller reports the title's records
// and asks whether a flush is due. A flush happens after every size-th
// title and after the last title of the range; each flush writes exactly
// the records buffered since the previous one to
//
//	<dir>/<prefix>_<start>_<end>_<titles processed>.<ext>
//
// and then empties the buffer. A failed write leaves the buffer untouched
// so the records are never silently lost.
//
// Files are produced by a Sink. ParquetSink is the default; NDJSONSink
// writes newline delimited JSON. Both write to a temporary file and rename
// it into place.
package checkpoint
