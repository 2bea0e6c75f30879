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

package graphrag

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/ids"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/llmcap"
	"github.com/bysensa/octocode/pkg/storage"
	"github.com/bysensa/octocode/pkg/walker"
)

// maxDescriptionTokens bounds the LLM's file-summary completion (spec §4.8
// step 1).
const maxDescriptionTokens = 128

// defaultConfidenceThreshold is the floor below which an edge (structural
// or LLM-derived) is dropped during reconciliation (spec §4.8 step 4).
const defaultConfidenceThreshold = 0.8

// Config wires a Reconciler's dependencies. Store and Root are required;
// Langs, TextProvider and LLM are optional and degrade gracefully when nil
// (no imports/exports, no embedding, no description, respectively).
type Config struct {
	Store        *storage.EmbeddedBackend
	Root         string
	Langs        *langreg.Registry
	TextProvider embedding.Provider
	LLM          llmcap.Capability

	// UseLLM gates whether LLM is actually called for node descriptions and
	// inferred edges, independent of whether a Capability is configured —
	// spec §4.8 step 1 treats "LLM disabled" as a distinct mode from
	// "LLM unavailable".
	UseLLM bool

	// ConfidenceThreshold is the floor below which an edge is dropped.
	// Zero means defaultConfidenceThreshold.
	ConfidenceThreshold float64

	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) confidenceThreshold() float64 {
	if c.ConfidenceThreshold > 0 {
		return c.ConfidenceThreshold
	}
	return defaultConfidenceThreshold
}

// Reconciler builds and maintains the file-level knowledge graph (spec
// §4.8). It satisfies pkg/indexer.GraphReconciler without importing it.
type Reconciler struct {
	cfg Config
}

// New constructs a Reconciler. Store and Root must be set on cfg.
func New(cfg Config) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// Reconcile rebuilds nodes and structural edges for changedPaths (spec
// §4.8 steps 1-4). A path that no longer exists on disk is treated as a
// deletion: its node and every incident edge are removed. Every surviving
// path gets a freshly built node and a recomputed set of structural edges
// against the full existing node set, so a change to one file can create
// or drop edges to unrelated, unchanged files (e.g. a new sibling).
func (r *Reconciler) Reconcile(ctx context.Context, changedPaths []string) error {
	for _, raw := range changedPaths {
		path := ids.NormalizePath(raw)
		content, err := os.ReadFile(filepath.Join(r.cfg.Root, path))
		if err != nil {
			if os.IsNotExist(err) {
				if derr := r.cfg.Store.DeleteNode(ctx, path); derr != nil {
					return derr
				}
				continue
			}
			return err
		}

		node, err := r.buildNode(ctx, path, content, walker.DetectLanguage(path))
		if err != nil {
			return err
		}
		if err := r.cfg.Store.UpsertNode(ctx, node); err != nil {
			return err
		}
	}

	all, err := r.cfg.Store.ListNodes(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]int, len(all))
	for i, n := range all {
		byID[n.NodeID] = i
	}

	for _, raw := range changedPaths {
		path := ids.NormalizePath(raw)
		idx, ok := byID[path]
		if !ok {
			continue // deleted this cycle
		}
		node := all[idx]

		edges := structuralEdges(node, all)
		if r.cfg.UseLLM && r.cfg.LLM != nil {
			inferred, err := r.inferredEdges(ctx, node, all)
			if err != nil {
				r.cfg.logger().Warn("graphrag.infer.error", "path", path, "err", err)
			} else {
				edges = append(edges, inferred...)
			}
		}

		threshold := r.cfg.confidenceThreshold()
		for _, e := range edges {
			if e.Confidence < threshold {
				continue
			}
			if err := r.cfg.Store.UpsertEdge(ctx, e); err != nil {
				return err
			}
		}
	}

	return nil
}
