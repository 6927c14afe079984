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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct load error",
			err:      ErrLoad,
			sentinel: ErrLoad,
			want:     true,
		},
		{
			name:     "wrapped load error",
			err:      fmt.Errorf("open ../data/pages.parquet: %w", ErrLoad),
			sentinel: ErrLoad,
			want:     true,
		},
		{
			name:     "different error type",
			err:      ErrWrite,
			sentinel: ErrLoad,
			want:     false,
		},
		{
			name:     "wrapped fetch error",
			err:      fmt.Errorf("status 503: %w", ErrFetch),
			sentinel: ErrFetch,
			want:     true,
		},
		{
			name:     "double wrapped write error",
			err:      fmt.Errorf("flush at 1000: %w", fmt.Errorf("rename: %w", ErrWrite)),
			sentinel: ErrWrite,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrLoad,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrLoad, "failed to load page table"},
		{ErrWrite, "failed to write checkpoint"},
		{ErrFetch, "revision page fetch failed"},
		{ErrInvalidRange, "invalid index range"},
		{ErrInvalidConfig, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
