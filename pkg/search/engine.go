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

package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/model"
	"github.com/bysensa/octocode/pkg/storage"
)

// Engine runs searches against one store (spec §4.7).
type Engine struct {
	store *storage.EmbeddedBackend

	// CodeProvider embeds code-kind queries; TextProvider embeds doc/text
	// queries. Picking per-kind follows spec §4.7 step 2 ("for code-leaning
	// systems, the code provider if it natively supports query prefixes").
	CodeProvider embedding.Provider
	TextProvider embedding.Provider

	langs *langreg.Registry
}

// New builds an Engine. langs may be nil; a fresh Registry is created if so.
func New(store *storage.EmbeddedBackend, codeProvider, textProvider embedding.Provider, langs *langreg.Registry) *Engine {
	if langs == nil {
		langs = langreg.New()
	}
	return &Engine{store: store, CodeProvider: codeProvider, TextProvider: textProvider, langs: langs}
}

func (e *Engine) providerFor(kind model.BlockKind) embedding.Provider {
	if kind == model.KindCode && e.CodeProvider != nil {
		return e.CodeProvider
	}
	return e.TextProvider
}

// Search runs the full spec §4.7 algorithm.
func (e *Engine) Search(ctx context.Context, opts Options) (*Response, error) {
	queries := opts.Queries
	if len(queries) == 0 {
		return nil, fmt.Errorf("search: at least one query is required")
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	kinds := opts.Mode.kinds()
	maxResults := opts.maxResults()
	k := maxResults * max(2, len(queries))

	// Step 2+3: embed each query per kind actually searched, then KNN.
	type hit struct {
		block model.Block
		sim   float64
	}
	byID := map[string]*struct {
		block model.Block
		best  float64
		count int
	}{}

	embedded := map[model.BlockKind]map[string][]float32{}
	for _, kind := range kinds {
		provider := e.providerFor(kind)
		if provider == nil {
			continue
		}
		vecs, err := provider.Embed(ctx, queries, embedding.InputQuery)
		if err != nil {
			return nil, fmt.Errorf("search: embed queries for %s: %w", kind, err)
		}
		embedded[kind] = make(map[string][]float32, len(queries))
		for i, q := range queries {
			embedded[kind][q] = vecs[i]
		}
	}

	for _, kind := range kinds {
		vecs, ok := embedded[kind]
		if !ok {
			continue
		}
		for _, q := range queries {
			scored, err := e.store.KNN(ctx, kind, vecs[q], k, opts.Filters)
			if err != nil {
				return nil, fmt.Errorf("search: knn for %s: %w", kind, err)
			}
			for _, sb := range scored {
				entry, ok := byID[sb.Block.ID]
				if !ok {
					entry = &struct {
						block model.Block
						best  float64
						count int
					}{block: sb.Block}
					byID[sb.Block.ID] = entry
				}
				if sb.Similarity > entry.best {
					entry.best = sb.Similarity
				}
				entry.count++
			}
		}
	}

	// Step 4: combined score with bounded multi-query boost.
	var hits []hit
	for _, entry := range byID {
		combined := entry.best
		if entry.count > 1 {
			combined = entry.best + multiQueryBoostAlpha*float64(entry.count-1)*(1-entry.best)
			if combined > 1 {
				combined = 1
			}
		}
		// Step 5: threshold.
		if combined < opts.SimilarityThreshold {
			continue
		}
		hits = append(hits, hit{block: entry.block, sim: combined})
	}

	// Step 6: stable sort by combined score desc, tie-break (kind priority,
	// path, start_line).
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].sim != hits[j].sim {
			return hits[i].sim > hits[j].sim
		}
		pi, pj := kindPriority(hits[i].block.Kind), kindPriority(hits[j].block.Kind)
		if pi != pj {
			return pi < pj
		}
		if hits[i].block.Path != hits[j].block.Path {
			return hits[i].block.Path < hits[j].block.Path
		}
		return hits[i].block.StartLine < hits[j].block.StartLine
	})

	// Step 7: top N.
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	detail := opts.DetailLevel
	if detail == "" {
		detail = DetailPartial
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		r := Result{Block: h.block, Similarity: h.sim}
		r.Rendered = e.render(h.block, detail)
		if opts.ExpandSymbols {
			expanded, err := e.expandSymbols(ctx, h.block, opts.expansionCap())
			if err != nil {
				return nil, fmt.Errorf("search: expand symbols for %s: %w", h.block.ID, err)
			}
			r.Expanded = expanded
		}
		results[i] = r
	}

	resp := &Response{Results: results, Queries: queries, Mode: opts.Mode}
	if opts.MaxTokens > 0 {
		resp.Truncated = truncateToBudget(resp, opts.MaxTokens)
	}
	return resp, nil
}

func kindPriority(k model.BlockKind) int {
	switch k {
	case model.KindCode:
		return 0
	case model.KindDoc:
		return 1
	default:
		return 2
	}
}

// expandSymbols returns, for one matched block, every other block in the
// same file whose symbols intersect the match's symbols (spec §4.7,
// "Symbol expansion"), up to cap entries.
func (e *Engine) expandSymbols(ctx context.Context, blk model.Block, cap int) ([]model.Block, error) {
	if len(blk.Symbols) == 0 {
		return nil, nil
	}
	want := map[string]bool{}
	for _, s := range blk.Symbols {
		want[s] = true
	}

	var out []model.Block
	for _, kind := range []model.BlockKind{model.KindCode, model.KindDoc, model.KindText} {
		candidates, err := e.store.BlocksByPath(ctx, kind, blk.Path)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if c.ID == blk.ID {
				continue
			}
			if !intersects(want, c.Symbols) {
				continue
			}
			out = append(out, c)
			if len(out) >= cap {
				return out, nil
			}
		}
	}
	return out, nil
}

func intersects(want map[string]bool, symbols []string) bool {
	for _, s := range symbols {
		if want[s] {
			return true
		}
	}
	return false
}
