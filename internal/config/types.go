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

// Package config types define the configuration structures used throughout
// wikirev. These types represent settings that can be loaded from YAML
// configuration files or environment variables. The index range and
// checkpoint size are not part of the configuration; they come from the
// command line.
package config

import "time"

// Config represents the complete configuration for wikirev.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Window  WindowConfig  `yaml:"window"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig contains the MediaWiki Action API settings. The API rejects
// anonymous clients, so UserAgent should identify the operator.
type APIConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	PageSize          int           `yaml:"page_size"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// WindowConfig is the revision time window, as ISO-8601 UTC timestamps
// (YYYY-MM-DDTHH:MM:SSZ). Revisions in (Start, End] are fetched.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// InputConfig locates the Parquet table of (title, pageid) rows.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls where and how checkpoint files are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Prefix      string `yaml:"prefix"`
	Format      string `yaml:"format"`
	Compression string `yaml:"compression"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig controls the Prometheus textfile written at the end of a run.
// An empty Textfile disables the export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Output formats supported by the checkpoint writer.
const (
	FormatParquet = "parquet"
	FormatNDJSON  = "ndjson"
)

// DefaultConfig returns the settings of the GoodWiki September 2023
// extraction against English Wikipedia.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:  "https://en.wikipedia.org/w/api.php",
			UserAgent: "wikirev/dev (https://github.com/goodwiki/wikirev)",
			Timeout:   30 * time.Second,
			PageSize:  50,
		},
		Window: WindowConfig{
			Start: "2023-01-01T00:00:00Z",
			End:   "2023-09-04T00:00:00Z",
		},
		Input: InputConfig{
			Path: "../data/09_04_2023_v1.parquet",
		},
		Output: OutputConfig{
			Dir:         "../data",
			Prefix:      "revisions",
			Format:      FormatParquet,
			Compression: "snappy",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
