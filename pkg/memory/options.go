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

import "github.com/bysensa/octocode/pkg/model"

const (
	// defaultCleanupThreshold is cleanup's importance floor (spec §4.9).
	defaultCleanupThreshold = 0.3

	// maxQueries mirrors pkg/search's cap on the number of remember()
	// queries considered per call (spec §4.7, reused by §4.9).
	maxQueries = 5

	// defaultLimit is remember()'s result cap when Limit is unset.
	defaultLimit = 3

	// multiQueryBoostAlpha mirrors pkg/search's bounded multi-query boost.
	multiQueryBoostAlpha = 0.2
)

// Filter selects a subset of memories for List. A zero-value field is not
// applied; every non-zero field must match (AND semantics). Tags and
// RelatedFile match if the memory contains that single value.
type Filter struct {
	MemoryType  model.MemoryType
	Tag         string
	RelatedFile string
}

func (f Filter) matches(m model.Memory) bool {
	if f.MemoryType != "" && m.MemoryType != f.MemoryType {
		return false
	}
	if f.Tag != "" && !containsString(m.Tags, f.Tag) {
		return false
	}
	if f.RelatedFile != "" && !containsString(m.RelatedFiles, f.RelatedFile) {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// RememberOptions parameterizes remember() (spec §4.9).
type RememberOptions struct {
	Queries      []string
	Filter       Filter
	Limit        int
	MinRelevance float64
}

func (o RememberOptions) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return defaultLimit
}

// Scored pairs a Memory with its final remember() score (combined
// similarity scaled by the importance multiplier).
type Scored struct {
	Memory model.Memory
	Score  float64
}

// Stats summarizes the memory store (spec §4.9's `stats` operation).
type Stats struct {
	Total         int
	ByType        map[model.MemoryType]int
	AvgImportance float64
	OldestUpdated int64
	NewestUpdated int64
}
