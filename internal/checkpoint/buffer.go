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

package checkpoint

import (
	"fmt"

	"github.com/goodwiki/wikirev/internal/wiki"
)

// Buffer is an ordered, growable sequence of revisions.
type Buffer struct {
	records []wiki.Revision
}

// Append adds records in order.
func (b *Buffer) Append(records ...wiki.Revision) {
	b.records = append(b.records, records...)
}

// Len returns the number of buffered records.
func (b *Buffer) Len() int {
	return len(b.records)
}

// Records returns the buffered records. The slice must not be modified.
func (b *Buffer) Records() []wiki.Revision {
	return b.records
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	clear(b.records)
	b.records = b.records[:0]
}

// ShouldFlush reports whether the buffer must be written after the title at
// titleIndex: every checkpointSize titles, and after the last title of the
// range ending at endIdx (exclusive).
func ShouldFlush(titleIndex, endIdx, checkpointSize int) bool {
	processed := titleIndex + 1
	if checkpointSize > 0 && processed%checkpointSize == 0 {
		return true
	}
	return processed == endIdx
}

// FileName returns the base name of the file written after processed
// titles of the range [start, end).
func FileName(prefix string, start, end, processed int, ext string) string {
	return fmt.Sprintf("%s_%d_%d_%d.%s", prefix, start, end, processed, ext)
}
