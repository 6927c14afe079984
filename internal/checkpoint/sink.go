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

	"github.com/goodwiki/wikirev/internal/output"
	"github.com/goodwiki/wikirev/internal/wiki"
)

// Sink serializes a batch of revisions to a file.
type Sink interface {
	// Extension is the file name extension, without the dot.
	Extension() string

	// Write stores records at path. path must not exist as a partial
	// file if Write fails.
	Write(path string, records []wiki.Revision) error
}

// NDJSONSink writes one JSON object per revision.
type NDJSONSink struct{}

// Extension implements Sink.
func (NDJSONSink) Extension() string {
	return "ndjson"
}

// Write implements Sink.
func (NDJSONSink) Write(path string, records []wiki.Revision) error {
	w, err := output.NewFileWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	for i := range records {
		if err := w.Write(&records[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return w.Commit()
}

// NewSink returns the sink for an output format name.
func NewSink(format, compression string) (Sink, error) {
	switch format {
	case "", "parquet":
		return NewParquetSink(compression)
	case "ndjson":
		return NDJSONSink{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
