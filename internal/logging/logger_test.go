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

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level to be info, got %s", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("Expected default pretty to be false")
	}
	if cfg.Output == nil {
		t.Error("Expected default output to be set")
	}
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAt      zerolog.Level
		wantOutput bool
	}{
		{name: "info logs info", level: "info", logAt: zerolog.InfoLevel, wantOutput: true},
		{name: "info drops debug", level: "info", logAt: zerolog.DebugLevel, wantOutput: false},
		{name: "debug logs debug", level: "debug", logAt: zerolog.DebugLevel, wantOutput: true},
		{name: "warn drops info", level: "warn", logAt: zerolog.InfoLevel, wantOutput: false},
		{name: "error logs error", level: "error", logAt: zerolog.ErrorLevel, wantOutput: true},
	}

	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := Setup(Config{Level: tt.level, Output: buf})

			logger.WithLevel(tt.logAt).Msg("checkpoint message")

			got := strings.Contains(buf.String(), "checkpoint message")
			if got != tt.wantOutput {
				t.Errorf("output contains message = %v, want %v (output: %q)", got, tt.wantOutput, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	buf := &bytes.Buffer{}
	Setup(Config{Level: "info", Output: buf})

	logger := NewLogger("fetcher")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"fetcher"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
