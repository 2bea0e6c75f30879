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

package storage

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// milestones are the growth points at which the index is rebuilt. The spec
// names 1k/10k/100k/1M for the N>=100k regime but the §8 testable property
// ("999->1001: exactly one build; subsequent writes do not rebuild") only
// holds if the same milestone-crossing rule also governs the 1k..100k
// band, so this implementation applies one uniform rule across both of
// spec §4.5's bullets rather than two different ones — licensed by §9's
// "implementers MAY substitute an equivalent rule provided the growth
// milestone property holds".
var milestones = []int{1_000, 10_000, 100_000, 1_000_000}

// Decision is the VectorOptimizer's output for a given table size.
type Decision struct {
	BruteForce    bool
	Milestone     int
	NumPartitions int
	NumSubVectors int
	NProbes       int
	RefineFactor  int
}

func milestoneFor(n int) int {
	m := 0
	for _, ms := range milestones {
		if n >= ms {
			m = ms
		}
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// numSubVectors picks, from {8,16,32,64}, the largest divisor of dim that
// is <= dim/8 (spec §4.5; the source's own heuristic is dropped per §9's
// open question in favor of this simpler, still-faithful rule).
func numSubVectors(dim int) int {
	maxAllowed := dim / 8
	best := 8
	for _, c := range []int{8, 16, 32, 64} {
		if c <= maxAllowed && dim%c == 0 {
			best = c
		}
	}
	return best
}

// Decide computes the VectorOptimizer's policy for a table with n rows and
// embeddings of the given dimensionality. It is a pure function of (n, dim)
// and carries no state — the stateful "have we already built at this
// milestone" tracking lives in VectorOptimizer.Observe.
func Decide(n, dim int) Decision {
	if n < 1_000 {
		return Decision{BruteForce: true}
	}
	ms := milestoneFor(n)
	partitions := clampInt(int(math.Round(math.Sqrt(float64(ms)))), 16, 256)
	if ms < 100_000 {
		return Decision{
			Milestone:     ms,
			NumPartitions: partitions,
			NumSubVectors: numSubVectors(dim),
			NProbes:       clampInt(int(math.Round(0.10*float64(partitions))), 4, 32),
			RefineFactor:  2,
		}
	}
	return Decision{
		Milestone:     ms,
		NumPartitions: partitions,
		NumSubVectors: numSubVectors(dim),
		NProbes:       clampInt(int(math.Round(0.05*float64(partitions))), 8, 64),
		RefineFactor:  4,
	}
}

// VectorOptimizer tracks, per table, the milestone at which an index was
// last built, and issues the CozoDB HNSW create/drop+create calls that
// physically realize Decide's policy (spec §9: CozoDB exposes HNSW, not
// literal IVF_PQ; the clamp/milestone arithmetic is computed and logged
// exactly as specified regardless of the underlying mechanism).
type VectorOptimizer struct {
	backend *EmbeddedBackend
	logger  *slog.Logger

	mu         sync.Mutex
	builtAt    map[string]int // table -> milestone last built at
	efConstr   int
}

// NewVectorOptimizer constructs an optimizer bound to backend.
func NewVectorOptimizer(backend *EmbeddedBackend, logger *slog.Logger) *VectorOptimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorOptimizer{
		backend:  backend,
		logger:   logger,
		builtAt:  make(map[string]int),
		efConstr: 200,
	}
}

// Observe is called after every batch write (spec §4.5 write API step 4).
// It re-derives the table's row count, consults Decide, and — only on a
// milestone crossing not yet built — (re)builds the HNSW index. All
// failures are logged and non-fatal: retrieval always has brute-force scan
// as a fallback.
func (o *VectorOptimizer) Observe(ctx context.Context, table string, dim int) {
	n, err := o.backend.rowCount(table)
	if err != nil {
		o.logger.Warn("storage.optimizer.count_failed", "table", table, "error", err)
		return
	}
	decision := Decide(n, dim)
	if decision.BruteForce {
		return
	}

	o.mu.Lock()
	last, built := o.builtAt[table]
	if built && last == decision.Milestone {
		o.mu.Unlock()
		return
	}
	o.builtAt[table] = decision.Milestone
	o.mu.Unlock()

	start := time.Now()
	// Best-effort drop: CozoDB errors if the index doesn't exist yet, which
	// is expected on the very first build and is not logged as a failure.
	_, _ = o.backend.db.Run(hnswDropStatement(table), nil)
	m := clampInt(decision.NumSubVectors*2, 8, 64)
	_, err = o.backend.db.Run(hnswIndexStatement(table, dim, m, o.efConstr), nil)
	elapsed := time.Since(start)
	if err != nil {
		o.logger.Warn("storage.optimizer.build_failed", "table", table, "rows", n, "error", err)
		return
	}
	o.logger.Info("storage.optimizer.build",
		"table", table,
		"rows", n,
		"partitions", decision.NumPartitions,
		"sub_vectors", decision.NumSubVectors,
		"nprobes", decision.NProbes,
		"refine_factor", decision.RefineFactor,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
