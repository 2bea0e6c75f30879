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
	"fmt"

	"github.com/bysensa/octocode/pkg/model"
)

// Filters restricts a KNN query (spec §4.5: "optional AND of equality
// predicates on path, language, symbols (contains), and kind").
type Filters struct {
	Path     string
	Language string
	Symbol   string
}

func (f Filters) match(b model.Block) bool {
	if f.Path != "" && b.Path != f.Path {
		return false
	}
	if f.Language != "" && b.Language != f.Language {
		return false
	}
	if f.Symbol != "" {
		found := false
		for _, s := range b.Symbols {
			if s == f.Symbol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// StoreBlocks appends blocks (after content-hash dedup against ids already
// present) to the table for kind, then notifies the VectorOptimizer (spec
// §4.5 write API). Returns the number of rows actually inserted.
func (b *EmbeddedBackend) StoreBlocks(ctx context.Context, kind model.BlockKind, blocks []model.Block) (int, error) {
	if len(blocks) == 0 {
		return 0, nil
	}
	dim := len(blocks[0].Embedding)
	table := kind.Table()

	existing, err := b.existingBlockIDs(ctx, table, ids(blocks))
	if err != nil {
		return 0, fmt.Errorf("storage: dedup check: %w", err)
	}

	rows := make([][]any, 0, len(blocks))
	for _, blk := range blocks {
		if existing[blk.ID] {
			continue
		}
		if len(blk.Embedding) != dim {
			return 0, fmt.Errorf("storage: embedding dim mismatch for block %s: got %d want %d", blk.ID, len(blk.Embedding), dim)
		}
		rows = append(rows, []any{
			blk.ID, blk.Path, blk.Language, encodeStrings(blk.Symbols),
			blk.StartLine, blk.EndLine, blk.Content, encodeEmbedding(blk.Embedding),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	script := fmt.Sprintf(`
?[id, path, language, symbols, start_line, end_line, content, embedding] <- $rows
:put %s { id, path, language, symbols, start_line, end_line, content, embedding }
`, table)
	if err := b.Execute(ctx, script, map[string]any{"rows": rows}); err != nil {
		return 0, err
	}
	b.optimizer.Observe(ctx, table, dim)
	return len(rows), nil
}

func ids(blocks []model.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func (b *EmbeddedBackend) existingBlockIDs(ctx context.Context, table string, want []string) (map[string]bool, error) {
	script := fmt.Sprintf(`?[id] := *%s{id}, id in $ids`, table)
	res, err := b.Query(ctx, script, map[string]any{"ids": want})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			if s, ok := row[0].(string); ok {
				out[s] = true
			}
		}
	}
	return out, nil
}

// DeleteBlocksByPath removes every block of kind belonging to path.
func (b *EmbeddedBackend) DeleteBlocksByPath(ctx context.Context, kind model.BlockKind, path string) error {
	table := kind.Table()
	script := fmt.Sprintf(`
?[id] := *%s{id, path}, path == $path
:rm %s { id }
`, table, table)
	return b.Execute(ctx, script, map[string]any{"path": path})
}

// DeleteBlockByID removes a single block by id.
func (b *EmbeddedBackend) DeleteBlockByID(ctx context.Context, kind model.BlockKind, id string) error {
	table := kind.Table()
	script := fmt.Sprintf(`?[id] <- [[$id]] :rm %s { id }`, table)
	return b.Execute(ctx, script, map[string]any{"id": id})
}

// KNN returns the k nearest blocks of kind to query by cosine similarity,
// honoring filters. Each Similarity is 1 - d/2 for the cosine distance
// d = 1 - cos, i.e. (1+cos)/2, in [0,1]. Correctness does not depend on whether the
// VectorOptimizer has built an HNSW index for this table: this scans every
// row satisfying filters and ranks in Go, which is always correct and is
// the documented brute-force fallback path (spec §4.5: "all failures of
// index creation are non-fatal; retrieval falls back to brute-force").
func (b *EmbeddedBackend) KNN(ctx context.Context, kind model.BlockKind, query []float32, k int, filters Filters) ([]model.ScoredBlock, error) {
	table := kind.Table()
	script := fmt.Sprintf(`?[id, path, language, symbols, start_line, end_line, content, embedding] := *%s{id, path, language, symbols, start_line, end_line, content, embedding}`, table)
	res, err := b.Query(ctx, script, nil)
	if err != nil {
		return nil, err
	}

	var candidates []model.Block
	var sims []float64
	for _, row := range res.Rows {
		blk := model.Block{
			Kind:      kind,
			ID:        asString(row[0]),
			Path:      asString(row[1]),
			Language:  asString(row[2]),
			Symbols:   decodeStrings(asString(row[3])),
			StartLine: asInt(row[4]),
			EndLine:   asInt(row[5]),
			Content:   asString(row[6]),
			Embedding: decodeEmbedding(row[7]),
		}
		if !filters.match(blk) {
			continue
		}
		candidates = append(candidates, blk)
		sims = append(sims, (1+cosineSimilarity(query, blk.Embedding))/2)
	}

	idxs := topK(sims, k)
	out := make([]model.ScoredBlock, len(idxs))
	for i, idx := range idxs {
		out[i] = model.ScoredBlock{Block: candidates[idx], Similarity: sims[idx]}
	}
	return out, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// BlocksByPath returns every block of kind belonging to path, in no
// particular order. Used by the GraphRAG builder to derive a file node's
// symbol union without a KNN ranking pass (spec §4.8 step 1).
func (b *EmbeddedBackend) BlocksByPath(ctx context.Context, kind model.BlockKind, path string) ([]model.Block, error) {
	table := kind.Table()
	script := fmt.Sprintf(`?[id, path, language, symbols, start_line, end_line, content, embedding] := *%s{id, path, language, symbols, start_line, end_line, content, embedding}, path == $path`, table)
	res, err := b.Query(ctx, script, map[string]any{"path": path})
	if err != nil {
		return nil, err
	}
	out := make([]model.Block, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.Block{
			Kind:      kind,
			ID:        asString(row[0]),
			Path:      asString(row[1]),
			Language:  asString(row[2]),
			Symbols:   decodeStrings(asString(row[3])),
			StartLine: asInt(row[4]),
			EndLine:   asInt(row[5]),
			Content:   asString(row[6]),
			Embedding: decodeEmbedding(row[7]),
		})
	}
	return out, nil
}
