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
	"bytes"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/goodwiki/wikirev/internal/output"
	"github.com/goodwiki/wikirev/internal/wiki"
)

// RevisionSchema is the column layout of every checkpoint file.
var RevisionSchema = arrow.NewSchema([]arrow.Field{
	{Name: "revid", Type: arrow.PrimitiveTypes.Int64},
	{Name: "parentid", Type: arrow.PrimitiveTypes.Int64},
	{Name: "minor", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "user", Type: arrow.BinaryTypes.String},
	{Name: "userid", Type: arrow.PrimitiveTypes.Int64},
	{Name: "anon", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "userhidden", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "timestamp", Type: arrow.BinaryTypes.String},
	{Name: "size", Type: arrow.PrimitiveTypes.Int64},
	{Name: "slotsize", Type: arrow.PrimitiveTypes.Int64},
	{Name: "contentmodel", Type: arrow.BinaryTypes.String},
	{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	{Name: "pageid", Type: arrow.PrimitiveTypes.Int64},
	{Name: "title", Type: arrow.BinaryTypes.String},
}, nil)

// ParseCompression maps a codec name to a Parquet compression codec.
func ParseCompression(name string) (compress.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "brotli":
		return compress.Codecs.Brotli, nil
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, fmt.Errorf("unknown compression codec %q", name)
	}
}

// ParquetSink writes checkpoint files in Parquet format.
type ParquetSink struct {
	compression compress.Compression
	mem         memory.Allocator
}

// NewParquetSink creates a sink using the named compression codec.
func NewParquetSink(compression string) (*ParquetSink, error) {
	codec, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	return &ParquetSink{
		compression: codec,
		mem:         memory.NewGoAllocator(),
	}, nil
}

// newDefaultParquetSink returns the snappy-compressed sink used when no sink
// is configured.
func newDefaultParquetSink() *ParquetSink {
	return &ParquetSink{
		compression: compress.Codecs.Snappy,
		mem:         memory.NewGoAllocator(),
	}
}

// Extension implements Sink.
func (s *ParquetSink) Extension() string {
	return "parquet"
}

// Write implements Sink. An empty records slice produces a valid file with
// the full schema and no rows.
func (s *ParquetSink) Write(path string, records []wiki.Revision) error {
	record := s.buildRecord(records)
	defer record.Release()

	var buf bytes.Buffer
	props := parquet.NewWriterProperties(
		parquet.WithCompression(s.compression),
		parquet.WithDataPageSize(1024*1024),
	)
	writer, err := pqarrow.NewFileWriter(RevisionSchema, &buf, props, pqarrow.NewArrowWriterProperties())
	if err != nil {
		return fmt.Errorf("failed to create Parquet writer: %w", err)
	}
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return output.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func (s *ParquetSink) buildRecord(records []wiki.Revision) arrow.Record {
	b := array.NewRecordBuilder(s.mem, RevisionSchema)
	defer b.Release()

	revID := b.Field(0).(*array.Int64Builder)
	parentID := b.Field(1).(*array.Int64Builder)
	minor := b.Field(2).(*array.BooleanBuilder)
	user := b.Field(3).(*array.StringBuilder)
	userID := b.Field(4).(*array.Int64Builder)
	anon := b.Field(5).(*array.BooleanBuilder)
	userHidden := b.Field(6).(*array.BooleanBuilder)
	timestamp := b.Field(7).(*array.StringBuilder)
	size := b.Field(8).(*array.Int64Builder)
	slotSize := b.Field(9).(*array.Int64Builder)
	contentModel := b.Field(10).(*array.StringBuilder)
	tags := b.Field(11).(*array.ListBuilder)
	tagValues := tags.ValueBuilder().(*array.StringBuilder)
	pageID := b.Field(12).(*array.Int64Builder)
	title := b.Field(13).(*array.StringBuilder)

	for _, rev := range records {
		revID.Append(rev.RevID)
		parentID.Append(rev.ParentID)
		minor.Append(rev.Minor)
		user.Append(rev.User)
		userID.Append(rev.UserID)
		anon.Append(rev.Anon)
		userHidden.Append(rev.UserHidden)
		timestamp.Append(rev.Timestamp)
		size.Append(rev.Size)
		slotSize.Append(rev.SlotSize)
		contentModel.Append(rev.ContentModel)
		tags.Append(true)
		for _, tag := range rev.Tags {
			tagValues.Append(tag)
		}
		pageID.Append(rev.PageID)
		title.Append(rev.Title)
	}

	return b.NewRecord()
}
