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
	"github.com/bysensa/octocode/pkg/model"
	"github.com/bysensa/octocode/pkg/storage"
)

// Mode restricts which block kinds a search considers (spec §4.7 step 1).
type Mode string

const (
	ModeAll  Mode = "all"
	ModeCode Mode = "code"
	ModeDocs Mode = "docs"
	ModeText Mode = "text"
)

// kinds returns the block kinds a Mode expands to.
func (m Mode) kinds() []model.BlockKind {
	switch m {
	case ModeCode:
		return []model.BlockKind{model.KindCode}
	case ModeDocs:
		return []model.BlockKind{model.KindDoc}
	case ModeText:
		return []model.BlockKind{model.KindText}
	default: // ModeAll and unrecognized values both search everything
		return []model.BlockKind{model.KindCode, model.KindDoc, model.KindText}
	}
}

// DetailLevel controls how a matched block is rendered (spec §4.7 step 8).
type DetailLevel string

const (
	DetailSignatures DetailLevel = "signatures"
	DetailPartial    DetailLevel = "partial"
	DetailFull       DetailLevel = "full"
)

const (
	maxQueries            = 5
	defaultMaxResults     = 3
	capMaxResults         = 20
	multiQueryBoostAlpha  = 0.2
	defaultExpansionCap   = 5
)

// Options configures one Search call (spec §4.7, §6 search.* config keys).
type Options struct {
	// Queries is one to five query strings. Required.
	Queries []string

	Mode                Mode
	DetailLevel         DetailLevel
	MaxResults          int     // <= 0 defaults to 3; values above 20 are capped
	SimilarityThreshold float64 // minimum similarity in [0,1]

	// Filters restricts candidates by path / language / symbol, applied
	// identically to every (query, kind) KNN request.
	Filters storage.Filters

	// MaxTokens optionally truncates the final rendered payload, keeping
	// the highest-ranked results whole (spec §4.7: "preserving the
	// highest-ranked items whole"). 0 means unlimited.
	MaxTokens int

	// ExpandSymbols enables the optional symbol-expansion pass (spec §4.7).
	ExpandSymbols bool
	// ExpansionCap bounds how many extra blocks symbol expansion returns
	// per result; <= 0 defaults to 5.
	ExpansionCap int
}

func (o Options) maxResults() int {
	n := o.MaxResults
	if n <= 0 {
		n = defaultMaxResults
	}
	if n > capMaxResults {
		n = capMaxResults
	}
	return n
}

func (o Options) expansionCap() int {
	if o.ExpansionCap > 0 {
		return o.ExpansionCap
	}
	return defaultExpansionCap
}

// Result is one ranked, rendered match.
type Result struct {
	Block      model.Block
	Similarity float64 // combined, boosted similarity (spec §4.7 step 4)
	Rendered   string
	Expanded   []model.Block // populated only when Options.ExpandSymbols is set
}

// Response is the full output of a Search call.
type Response struct {
	Results   []Result
	Queries   []string
	Mode      Mode
	Truncated bool // true when MaxTokens dropped lower-ranked results
}
