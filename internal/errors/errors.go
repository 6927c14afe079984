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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrLoad indicates the input page table is missing or malformed.
	// Maps to exit code 2.
	ErrLoad = errors.New("failed to load page table")

	// ErrWrite indicates a checkpoint file could not be written.
	// Maps to exit code 3.
	ErrWrite = errors.New("failed to write checkpoint")

	// ErrFetch indicates a single revision page could not be fetched or parsed.
	// It never terminates a run; the fetcher degrades it to an empty page.
	ErrFetch = errors.New("revision page fetch failed")

	// ErrInvalidRange indicates the requested index range or checkpoint size is unusable.
	ErrInvalidRange = errors.New("invalid index range")

	// ErrInvalidConfig indicates the loaded configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
