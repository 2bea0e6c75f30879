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

package llmcap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bysensa/octocode/pkg/embedding"
)

var errTooLarge = errors.New("llmcap: request exceeds max_batch_tokens")

const (
	defaultBatchSize      = 8
	defaultMaxBatchTokens = 16384
	defaultRequestTimeout = 60 * time.Second
)

// Request is one completion to run as part of a Batch call.
type Request struct {
	System    string
	User      string
	MaxTokens int
}

// Batcher runs many Requests with bounded concurrency (spec §6: "batch size
// default 8, max batch tokens default 16384, per-request timeout 60s").
//
// It is a worker pool: a capped number of goroutines drain a job channel and
// publish to a results channel. Each Request is its own LLM call; several
// prompts are never folded into one call. The token limit applies to each
// Request separately (its estimated system plus user tokens), not to a
// budget shared across the batch.
type Batcher struct {
	cap            Capability
	batchSize      int
	maxBatchTokens int
	timeout        time.Duration
	estimator      *embedding.TokenEstimator
}

// NewBatcher builds a Batcher over cap with spec-default limits.
func NewBatcher(cap Capability) *Batcher {
	return &Batcher{
		cap: cap, batchSize: defaultBatchSize, maxBatchTokens: defaultMaxBatchTokens,
		timeout: defaultRequestTimeout, estimator: embedding.NewTokenEstimator(nil),
	}
}

// WithBatchSize overrides the concurrency cap.
func (b *Batcher) WithBatchSize(n int) *Batcher {
	if n > 0 {
		b.batchSize = n
	}
	return b
}

// WithMaxBatchTokens overrides the token limit each Request is checked against.
func (b *Batcher) WithMaxBatchTokens(n int) *Batcher {
	if n > 0 {
		b.maxBatchTokens = n
	}
	return b
}

// WithTimeout overrides the per-request timeout.
func (b *Batcher) WithTimeout(d time.Duration) *Batcher {
	if d > 0 {
		b.timeout = d
	}
	return b
}

// result mirrors a Request's outcome, keeping index order stable.
type result struct {
	text string
	err  error
}

// Complete runs every request, returning results in the same order as
// reqs. A request whose system+user text alone would exceed
// maxBatchTokens is skipped with a descriptive error rather than sent.
// One request's failure never aborts the others.
func (b *Batcher) Complete(ctx context.Context, reqs []Request) ([]string, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	results := make([]result, len(reqs))
	jobs := make(chan int, len(reqs))
	for i := range reqs {
		jobs <- i
	}
	close(jobs)

	workers := b.batchSize
	if workers > len(reqs) {
		workers = len(reqs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.completeOne(ctx, reqs[i])
			}
		}()
	}
	wg.Wait()

	out := make([]string, len(reqs))
	var firstErr error
	for i, r := range results {
		out[i] = r.text
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	return out, firstErr
}

func (b *Batcher) completeOne(ctx context.Context, req Request) result {
	if b.estimator.Estimate(req.System)+b.estimator.Estimate(req.User) > b.maxBatchTokens {
		return result{err: errTooLarge}
	}
	reqCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	text, err := b.cap.Complete(reqCtx, req.System, req.User, req.MaxTokens)
	return result{text: text, err: err}
}
