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

package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// PageRow is one row of an input page table.
type PageRow struct {
	Title  string
	PageID int64
}

// WritePageTable writes rows as a Parquet file with a utf8 title column and
// an int64 pageid column, the layout pandas produces.
func WritePageTable(t *testing.T, path string, rows []PageRow) {
	t.Helper()
	writePageTable(t, path, rows, arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64)
}

// WriteLargeStringPageTable writes rows with a large_utf8 title column and an
// int32 pageid column, the layout polars produces for narrow ids.
func WriteLargeStringPageTable(t *testing.T, path string, rows []PageRow) {
	t.Helper()
	writePageTable(t, path, rows, arrow.BinaryTypes.LargeString, arrow.PrimitiveTypes.Int32)
}

func writePageTable(t *testing.T, path string, rows []PageRow, titleType, idType arrow.DataType) {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "title", Type: titleType},
		{Name: "pageid", Type: idType},
		{Name: "length", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for _, row := range rows {
		switch tb := b.Field(0).(type) {
		case *array.StringBuilder:
			tb.Append(row.Title)
		case *array.LargeStringBuilder:
			tb.Append(row.Title)
		}
		switch ib := b.Field(1).(type) {
		case *array.Int64Builder:
			ib.Append(row.PageID)
		case *array.Int32Builder:
			ib.Append(int32(row.PageID))
		}
		b.Field(2).(*array.Int64Builder).Append(int64(len(row.Title)))
	}

	record := b.NewRecord()
	defer record.Release()

	WriteRecord(t, path, record)
}

// WriteRecord writes a single record batch to path as Parquet.
func WriteRecord(t *testing.T, path string, record arrow.Record) {
	t.Helper()

	var buf bytes.Buffer
	writer, err := pqarrow.NewFileWriter(record.Schema(), &buf, parquet.NewWriterProperties(), pqarrow.NewArrowWriterProperties())
	if err != nil {
		t.Fatalf("Failed to create Parquet writer: %v", err)
	}
	if err := writer.Write(record); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write Parquet file: %v", err)
	}
}

// CountParquetRows returns the row count recorded in a Parquet footer.
func CountParquetRows(t *testing.T, path string) int64 {
	t.Helper()

	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		t.Fatalf("Failed to open Parquet file %s: %v", path, err)
	}
	defer reader.Close()

	return reader.NumRows()
}
