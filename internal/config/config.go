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

// Package config provides configuration management for wikirev with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Environment variables (WIKIREV_*)
//  2. Configuration file
//  3. Built-in defaults
//
// The index range and checkpoint size are deliberately not configurable here;
// they are the three command-line parameters of every run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	wikierrors "github.com/goodwiki/wikirev/internal/errors"
	"gopkg.in/yaml.v3"
)

// TimestampLayout is the ISO-8601 UTC layout the MediaWiki API accepts and
// returns for revision timestamps.
const TimestampLayout = "2006-01-02T15:04:05Z"

// maxPageSize is the rvlimit ceiling for clients without the apihighlimits right.
const maxPageSize = 500

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .wikirev.yaml (current directory)
//   - .wikirev.yml (current directory)
//   - ~/.wikirev/config.yaml
//
// Environment variables are applied after loading the config file. Path
// expansion (~ and environment variables) is performed on file system paths.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".wikirev.yaml",
			".wikirev.yml",
			filepath.Join(os.Getenv("HOME"), ".wikirev", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Input.Path = expandPath(cfg.Input.Path)
	cfg.Output.Dir = expandPath(cfg.Output.Dir)
	cfg.Metrics.Textfile = expandPath(cfg.Metrics.Textfile)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Unparsable numeric values are ignored and the previous value is kept.
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("WIKIREV_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}
	if ua := os.Getenv("WIKIREV_USER_AGENT"); ua != "" {
		cfg.API.UserAgent = ua
	}
	if timeout := os.Getenv("WIKIREV_API_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.API.Timeout = d
		}
	}
	if pageSize := os.Getenv("WIKIREV_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.API.PageSize = size
		}
	}
	if rps := os.Getenv("WIKIREV_REQUESTS_PER_SECOND"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil && v >= 0 {
			cfg.API.RequestsPerSecond = v
		}
	}

	if start := os.Getenv("WIKIREV_WINDOW_START"); start != "" {
		cfg.Window.Start = start
	}
	if end := os.Getenv("WIKIREV_WINDOW_END"); end != "" {
		cfg.Window.End = end
	}

	if input := os.Getenv("WIKIREV_INPUT_PATH"); input != "" {
		cfg.Input.Path = input
	}
	if dir := os.Getenv("WIKIREV_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if format := os.Getenv("WIKIREV_OUTPUT_FORMAT"); format != "" {
		cfg.Output.Format = strings.ToLower(format)
	}
	if compression := os.Getenv("WIKIREV_OUTPUT_COMPRESSION"); compression != "" {
		cfg.Output.Compression = strings.ToLower(compression)
	}

	if level := os.Getenv("WIKIREV_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if pretty := os.Getenv("WIKIREV_LOG_PRETTY"); pretty != "" {
		cfg.Logging.Pretty = parseBool(pretty)
	}

	if textfile := os.Getenv("WIKIREV_METRICS_TEXTFILE"); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// WindowBounds parses the configured window into UTC times.
func (c *Config) WindowBounds() (start, end time.Time, err error) {
	start, err = time.Parse(TimestampLayout, c.Window.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window start %q is not YYYY-MM-DDTHH:MM:SSZ: %w", c.Window.Start, wikierrors.ErrInvalidConfig)
	}
	end, err = time.Parse(TimestampLayout, c.Window.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window end %q is not YYYY-MM-DDTHH:MM:SSZ: %w", c.Window.End, wikierrors.ErrInvalidConfig)
	}
	return start.UTC(), end.UTC(), nil
}

// Validate checks if the configuration contains valid values. It should be
// called after loading configuration to catch invalid settings before any
// request is issued.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint cannot be empty: %w", wikierrors.ErrInvalidConfig)
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty: %w", wikierrors.ErrInvalidConfig)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d: %w", c.API.PageSize, wikierrors.ErrInvalidConfig)
	}
	if c.API.PageSize > maxPageSize {
		return fmt.Errorf("page size %d exceeds API limit of %d: %w", c.API.PageSize, maxPageSize, wikierrors.ErrInvalidConfig)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got: %s: %w", c.API.Timeout, wikierrors.ErrInvalidConfig)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative: %w", wikierrors.ErrInvalidConfig)
	}

	start, end, err := c.WindowBounds()
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("window start %s must be before end %s: %w", c.Window.Start, c.Window.End, wikierrors.ErrInvalidConfig)
	}

	if c.Input.Path == "" {
		return fmt.Errorf("input path cannot be empty: %w", wikierrors.ErrInvalidConfig)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory cannot be empty: %w", wikierrors.ErrInvalidConfig)
	}
	switch c.Output.Format {
	case FormatParquet, FormatNDJSON:
	default:
		return fmt.Errorf("unsupported output format %q: %w", c.Output.Format, wikierrors.ErrInvalidConfig)
	}

	return nil
}
