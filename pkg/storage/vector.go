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
	"math"
	"sort"
)

// cosineSimilarity returns the raw cosine in [-1, 1]. KNN maps it to the
// similarity 1 - d/2 = (1+cos)/2 in [0,1], where d = 1 - cos is the cosine
// distance; KNNNodes and KNNMemories report the raw cosine.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

type ranked struct {
	idx        int
	similarity float64
}

// topK returns the indices of the highest-similarity entries, descending.
func topK(sims []float64, k int) []int {
	rs := make([]ranked, len(sims))
	for i, s := range sims {
		rs[i] = ranked{idx: i, similarity: s}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].similarity > rs[j].similarity })
	if k > len(rs) {
		k = len(rs)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = rs[i].idx
	}
	return out
}

func decodeEmbedding(v any) []float32 {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float32, len(arr))
	for i, x := range arr {
		switch n := x.(type) {
		case float64:
			out[i] = float32(n)
		case float32:
			out[i] = n
		}
	}
	return out
}

func encodeEmbedding(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
