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

import "context"

const mockDefaultDim = 256

// mockProvider generates deterministic, non-semantic embeddings from a
// text hash — for tests and offline development, never production search
// quality.
type mockProvider struct {
	dim   int
	model string
}

func newMockProvider(model string) *mockProvider {
	return &mockProvider{dim: mockDefaultDim, model: model}
}

func (m *mockProvider) Embed(ctx context.Context, batch []string, _ InputType) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for i, text := range batch {
		out[i] = normalize(hashEmbedding(text, m.dim))
	}
	return out, nil
}

func (m *mockProvider) Dim() int                 { return m.dim }
func (m *mockProvider) ModelID() string          { return "mock:" + m.model }
func (m *mockProvider) MaxTokensPerRequest() int { return 1_000_000 }

func hashEmbedding(s string, dim int) []float32 {
	hash := hashString(s)
	v := make([]float32, dim)
	for i := range v {
		val := float32((hash+uint64(i)*7919)%10000) / 10000.0
		v[i] = val*2.0 - 1.0
	}
	return v
}

func hashString(s string) uint64 {
	var hash uint64 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint64(c)
	}
	return hash
}
