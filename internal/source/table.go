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

package source

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	wikierrors "github.com/goodwiki/wikirev/internal/errors"
)

const (
	// TitleColumn names the article title column.
	TitleColumn = "title"
	// PageIDColumn names the page id column.
	PageIDColumn = "pageid"
)

// PageRef identifies one article to process.
type PageRef struct {
	Title  string
	PageID int64
}

// Table is the loaded input, addressed by zero-based row index.
type Table struct {
	path string
	refs []PageRef
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.refs)
}

// Path returns the file the table was loaded from.
func (t *Table) Path() string {
	return t.path
}

// Row returns the row at index i.
func (t *Table) Row(i int) (PageRef, error) {
	if i < 0 || i >= len(t.refs) {
		return PageRef{}, fmt.Errorf("row %d outside table of %d rows", i, len(t.refs))
	}
	return t.refs[i], nil
}

// Load reads the Parquet file at path. Every failure wraps ErrLoad.
func Load(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wikierrors.ErrLoad, err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", wikierrors.ErrLoad, path, err)
	}
	defer tbl.Release()

	titles, err := column(tbl, TitleColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", wikierrors.ErrLoad, path, err)
	}
	pageIDs, err := column(tbl, PageIDColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", wikierrors.ErrLoad, path, err)
	}

	refs := make([]PageRef, 0, tbl.NumRows())
	for _, chunk := range titles.Chunks() {
		values, ok := chunk.(stringValuer)
		if !ok {
			return nil, fmt.Errorf("%w: %s: column %q has type %s, want string",
				wikierrors.ErrLoad, path, TitleColumn, chunk.DataType())
		}
		for j := 0; j < chunk.Len(); j++ {
			if chunk.IsNull(j) {
				return nil, fmt.Errorf("%w: %s: null %s at row %d",
					wikierrors.ErrLoad, path, TitleColumn, len(refs))
			}
			refs = append(refs, PageRef{Title: values.Value(j)})
		}
	}

	row := 0
	for _, chunk := range pageIDs.Chunks() {
		for j := 0; j < chunk.Len(); j++ {
			if chunk.IsNull(j) {
				return nil, fmt.Errorf("%w: %s: null %s at row %d",
					wikierrors.ErrLoad, path, PageIDColumn, row)
			}
			id, err := intValue(chunk, j)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", wikierrors.ErrLoad, path, err)
			}
			refs[row].PageID = id
			row++
		}
	}

	return &Table{path: path, refs: refs}, nil
}

// stringValuer covers String, LargeString and StringView arrays.
type stringValuer interface {
	Value(i int) string
}

func column(tbl arrow.Table, name string) (*arrow.Chunked, error) {
	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("missing column %q", name)
	}
	return tbl.Column(indices[0]).Data(), nil
}

func intValue(arr arrow.Array, i int) (int64, error) {
	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Uint64:
		return int64(a.Value(i)), nil
	case *array.Uint32:
		return int64(a.Value(i)), nil
	case *array.Uint16:
		return int64(a.Value(i)), nil
	case *array.Uint8:
		return int64(a.Value(i)), nil
	default:
		return 0, fmt.Errorf("column %q has type %s, want integer", PageIDColumn, arr.DataType())
	}
}
