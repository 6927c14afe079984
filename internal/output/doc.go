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

// Package output writes result files without ever exposing a partial file
// under its final name.
//
// Writer encodes records as NDJSON (one JSON object per line). A Writer
// created with NewFileWriter writes to "<path>.tmp" and only renames the
// file into place on Commit; Close without Commit removes the temporary
// file. WriteFileAtomic does the same for a fully rendered payload such as
// an encoded Parquet file or a metadata document.
//
// Example usage:
//
//	w, err := output.NewFileWriter("revisions_0_100_100.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	for _, rev := range revisions {
//	    if err := w.Write(rev); err != nil {
//	        return err
//	    }
//	}
//	return w.Commit()
package output
