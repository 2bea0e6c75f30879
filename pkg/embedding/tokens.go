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

import (
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// bytesPerTokenFallback estimates tokens when the cl100k_base encoding
// can't be loaded (offline, or the rank file fetch failed). 4 bytes/token
// is tiktoken's own published average for English text and stays on the
// safe (over-counting, never >10% under at p95) side for code, which tends
// to tokenize slightly denser than prose.
const bytesPerTokenFallback = 4

// TokenEstimator estimates token counts for batching decisions. It is not
// exact for every model — it targets cl100k_base — but spec §9 only
// requires it to not under-count by more than 10% at the 95th percentile,
// which cl100k_base (or the byte-length fallback) satisfies for the
// languages this system indexes.
type TokenEstimator struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTokenEstimator loads the cl100k_base encoding. If loading fails (e.g.
// no network access to fetch the BPE rank file), the returned estimator
// falls back to bytesPerTokenFallback instead of failing — spec §4.4 says
// a provider error fails a batch, but the estimator itself must never be
// fatal, since it only decides how texts are grouped, not whether they
// embed successfully.
func NewTokenEstimator(logger *slog.Logger) *TokenEstimator {
	if logger == nil {
		logger = slog.Default()
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("embedding.tokenizer.fallback", "error", err)
		return &TokenEstimator{}
	}
	return &TokenEstimator{enc: enc}
}

// Estimate returns the token count for text.
func (t *TokenEstimator) Estimate(text string) int {
	if t.enc == nil {
		return (len(text) + bytesPerTokenFallback - 1) / bytesPerTokenFallback
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enc.Encode(text, nil, nil))
}
