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

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type editRecord struct {
	RevID int64    `json:"revid"`
	Title string   `json:"title"`
	Minor bool     `json:"minor"`
	Tags  []string `json:"tags"`
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		records []editRecord
		want    []string
	}{
		{
			name:    "single record",
			records: []editRecord{{RevID: 1, Title: "Ada Lovelace", Tags: []string{}}},
			want:    []string{`{"revid":1,"title":"Ada Lovelace","minor":false,"tags":[]}`},
		},
		{
			name: "multiple records",
			records: []editRecord{
				{RevID: 3, Title: "Ada Lovelace", Minor: true, Tags: []string{"mobile edit"}},
				{RevID: 2, Title: "Ada Lovelace", Tags: []string{}},
			},
			want: []string{
				`{"revid":3,"title":"Ada Lovelace","minor":true,"tags":["mobile edit"]}`,
				`{"revid":2,"title":"Ada Lovelace","minor":false,"tags":[]}`,
			},
		},
		{
			name:    "empty records",
			records: []editRecord{},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, record := range tt.records {
				if err := writer.Write(record); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			if err := writer.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}

			output := strings.TrimSpace(buf.String())
			if output == "" && len(tt.want) == 0 {
				return
			}

			lines := strings.Split(output, "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("Line count mismatch: got %d, want %d", len(lines), len(tt.want))
			}
			for i, line := range lines {
				if line != tt.want[i] {
					t.Errorf("Line %d mismatch:\ngot:  %s\nwant: %s", i, line, tt.want[i])
				}
			}
		})
	}
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	numGoroutines := 10
	recordsPerGoroutine := 100
	totalRecords := numGoroutines * recordsPerGoroutine

	errCh := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			for j := 0; j < recordsPerGoroutine; j++ {
				record := editRecord{RevID: int64(goroutineID*recordsPerGoroutine + j), Title: "Concurrent"}
				if err := writer.Write(record); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != totalRecords {
		t.Errorf("Line count mismatch: got %d, want %d", len(lines), totalRecords)
	}
	for i, line := range lines {
		var record editRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Errorf("Invalid JSON at line %d: %v", i, err)
		}
	}
}

func TestFileWriter_Commit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "revisions_0_2_2.ndjson")

	writer, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer writer.Close()

	for _, rec := range []editRecord{{RevID: 2, Title: "A"}, {RevID: 1, Title: "B"}} {
		if err := writer.Write(rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("final file must not exist before Commit")
	}
	if _, err := os.Stat(path + TempSuffix); err != nil {
		t.Fatalf("temporary file missing: %v", err)
	}

	if err := writer.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close after Commit failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Error("temporary file left behind after Commit")
	}
}

func TestFileWriter_CloseWithoutCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abandoned.ndjson")

	writer, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := writer.Write(editRecord{RevID: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, p := range []string{path, path + TempSuffix} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be absent", filepath.Base(p))
		}
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A regular file cannot act as a parent directory.
	if _, err := NewFileWriter(filepath.Join(blocker, "out.ndjson")); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if err := writer.Write(make(chan int)); err == nil {
		t.Error("Expected error when writing non-marshalable data")
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("failed write must not emit a line, got %q", buf.String())
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "payload.bin")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
	if _, err := os.Stat(path + TempSuffix); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestWriteFileAtomic_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(target, []byte("data"), 0o644); err == nil {
		t.Fatal("expected rename onto a non-empty directory to fail")
	}
	if _, err := os.Stat(target + TempSuffix); !os.IsNotExist(err) {
		t.Error("temporary file left behind after failure")
	}
}
