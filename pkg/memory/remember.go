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

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/model"
)

// Remember runs the multi-query retrieval spec §4.9 defines as "same
// multi-query algorithm as §4.7 over memories" plus an importance
// multiplier: final = combined_similarity * (0.5 + 0.5*importance).
func (s *Store) Remember(ctx context.Context, opts RememberOptions) ([]Scored, error) {
	queries := opts.Queries
	if len(queries) == 0 {
		return nil, fmt.Errorf("memory: remember requires at least one query")
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	limit := opts.limit()
	k := limit * max(2, len(queries))

	vecs, err := s.textProvider.Embed(ctx, queries, embedding.InputQuery)
	if err != nil {
		return nil, fmt.Errorf("memory: embed remember queries: %w", err)
	}

	type entry struct {
		mem   model.Memory
		best  float64
		count int
	}
	byID := map[string]*entry{}

	for _, vec := range vecs {
		mems, sims, err := s.backend.KNNMemories(ctx, vec, k)
		if err != nil {
			return nil, fmt.Errorf("memory: knn: %w", err)
		}
		for i, m := range mems {
			if !opts.Filter.matches(m) {
				continue
			}
			e, ok := byID[m.ID]
			if !ok {
				e = &entry{mem: m}
				byID[m.ID] = e
			}
			if sims[i] > e.best {
				e.best = sims[i]
			}
			e.count++
		}
	}

	var out []Scored
	for _, e := range byID {
		combined := e.best
		if e.count > 1 {
			combined = e.best + multiQueryBoostAlpha*float64(e.count-1)*(1-e.best)
			if combined > 1 {
				combined = 1
			}
		}
		final := combined * (0.5 + 0.5*e.mem.Importance)
		if final < opts.MinRelevance {
			continue
		}
		out = append(out, Scored{Memory: e.mem, Score: final})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Memory.UpdatedAt > out[j].Memory.UpdatedAt
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
