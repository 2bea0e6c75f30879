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

package embedding

// Batch is one group of texts to embed in a single provider request, with
// Indices mapping each text back to its position in the original slice so
// callers can scatter the resulting embeddings back onto their blocks.
type Batch struct {
	Texts   []string
	Indices []int
}

// Batcher groups texts by two simultaneous budgets — a count and a token
// budget — flushing whichever trips first (spec §4.4).
type Batcher struct {
	estimator *TokenEstimator
	maxCount  int
	maxTokens int
}

// NewBatcher builds a Batcher. maxCount <= 0 defaults to 16 items,
// maxTokens <= 0 defaults to 100,000 tokens, per spec §6.
func NewBatcher(estimator *TokenEstimator, maxCount, maxTokens int) *Batcher {
	if maxCount <= 0 {
		maxCount = 16
	}
	if maxTokens <= 0 {
		maxTokens = 100_000
	}
	return &Batcher{estimator: estimator, maxCount: maxCount, maxTokens: maxTokens}
}

// Split partitions texts into Batches in order. A single text whose own
// token estimate exceeds maxTokens still becomes its own one-item batch —
// the budget bounds grouping, not the size of an individual text; if the
// provider itself rejects it, spec §4.4 makes that batch's failure the
// indexer's problem to skip and log, not the batcher's.
func (b *Batcher) Split(texts []string) []Batch {
	var batches []Batch
	var cur Batch
	curTokens := 0

	flush := func() {
		if len(cur.Indices) > 0 {
			batches = append(batches, cur)
			cur = Batch{}
			curTokens = 0
		}
	}

	for i, text := range texts {
		tokens := b.estimator.Estimate(text)
		if len(cur.Indices) > 0 && (len(cur.Indices)+1 > b.maxCount || curTokens+tokens > b.maxTokens) {
			flush()
		}
		cur.Texts = append(cur.Texts, text)
		cur.Indices = append(cur.Indices, i)
		curTokens += tokens
	}
	flush()
	return batches
}
