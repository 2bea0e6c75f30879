// Copyright 2025 The Octocode Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package indexer

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// pipelineMetrics holds the Prometheus metrics for one indexing cycle.
type pipelineMetrics struct {
	once sync.Once

	filesAdded    prometheus.Counter
	filesModified prometheus.Counter
	filesDeleted  prometheus.Counter
	filesSkipped  prometheus.Counter
	parseErrors   prometheus.Counter

	blocksWritten prometheus.Counter
	batchesSent   prometheus.Counter
	embedErrors   prometheus.Counter

	deltaDuration prometheus.Histogram
	cycleDuration prometheus.Histogram
}

var metrics pipelineMetrics

func (m *pipelineMetrics) init() {
	m.once.Do(func() {
		m.filesAdded = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_files_added_total", Help: "Files newly indexed"})
		m.filesModified = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_files_modified_total", Help: "Files re-indexed due to content change"})
		m.filesDeleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_files_deleted_total", Help: "Files removed from the index"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_files_skipped_total", Help: "Files skipped because their content hash and mtime matched the snapshot"})
		m.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_parse_errors_total", Help: "Files that failed to parse and were left untouched"})

		m.blocksWritten = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_blocks_written_total", Help: "Blocks written to the store"})
		m.batchesSent = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_batches_sent_total", Help: "Embedding batches sent to a provider"})
		m.embedErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "octocode_indexer_embed_errors_total", Help: "Embedding batches that failed and were skipped"})

		buckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
		m.deltaDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "octocode_indexer_delta_seconds", Help: "Time spent computing the git delta", Buckets: buckets})
		m.cycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "octocode_indexer_cycle_seconds", Help: "Total duration of one indexing cycle", Buckets: buckets})

		prometheus.MustRegister(
			m.filesAdded, m.filesModified, m.filesDeleted, m.filesSkipped, m.parseErrors,
			m.blocksWritten, m.batchesSent, m.embedErrors,
			m.deltaDuration, m.cycleDuration,
		)
	})
}
