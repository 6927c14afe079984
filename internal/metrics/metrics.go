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

// Package metrics holds the Prometheus collectors for an extraction run.
//
// wikirev is a batch job, so nothing is scraped. The collectors live in a
// private registry and are written once, at the end of the run, in the
// node_exporter textfile format when a textfile path is configured.
//
// Metrics:
//   - wikirev_api_requests_total{outcome} (Counter): revision page requests by outcome (ok, error)
//   - wikirev_api_request_duration_seconds (Histogram): revision page request latency
//   - wikirev_fetch_degradations_total{class} (Counter): pages degraded to empty, by apierror class
//   - wikirev_pagination_guard_stops_total (Counter): walks stopped because the window stopped shrinking
//   - wikirev_boundary_overlaps_total (Counter): boundary revisions returned by two consecutive pages
//   - wikirev_revisions_fetched_total (Counter): revision records appended to the buffer
//   - wikirev_titles_processed_total (Counter): titles fully processed
//   - wikirev_checkpoint_flushes_total (Counter): checkpoint files written
//   - wikirev_checkpoint_records_total (Counter): records written across all checkpoint files
//   - wikirev_checkpoint_buffer_records (Gauge): records currently buffered
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector of a run together with its registry.
type Metrics struct {
	Registry *prometheus.Registry

	APIRequests        *prometheus.CounterVec
	APIRequestDuration prometheus.Histogram
	FetchDegradations  *prometheus.CounterVec
	PaginationGuard    prometheus.Counter
	BoundaryOverlaps   prometheus.Counter
	RevisionsFetched   prometheus.Counter
	TitlesProcessed    prometheus.Counter
	CheckpointFlushes  prometheus.Counter
	CheckpointRecords  prometheus.Counter
	BufferedRecords    prometheus.Gauge
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wikirev_api_requests_total",
			Help: "Revision page requests by outcome",
		}, []string{"outcome"}),
		APIRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wikirev_api_request_duration_seconds",
			Help:    "Revision page request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchDegradations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wikirev_fetch_degradations_total",
			Help: "Revision pages degraded to an empty page, by error class",
		}, []string{"class"}),
		PaginationGuard: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_pagination_guard_stops_total",
			Help: "Pagination walks stopped because the window end did not move backward",
		}),
		BoundaryOverlaps: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_boundary_overlaps_total",
			Help: "Boundary revisions returned by two consecutive pages of the same title",
		}),
		RevisionsFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_revisions_fetched_total",
			Help: "Revision records appended to the checkpoint buffer",
		}),
		TitlesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_titles_processed_total",
			Help: "Titles fully processed",
		}),
		CheckpointFlushes: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_checkpoint_flushes_total",
			Help: "Checkpoint files written",
		}),
		CheckpointRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "wikirev_checkpoint_records_total",
			Help: "Records written across all checkpoint files",
		}),
		BufferedRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wikirev_checkpoint_buffer_records",
			Help: "Records currently held in the checkpoint buffer",
		}),
	}
}

// WriteTextfile writes the current values in the Prometheus text format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
