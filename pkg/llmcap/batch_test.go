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
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
)

type stubCapability struct {
	calls int32
}

func (s *stubCapability) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return "echo:" + user, nil
}

func TestBatcherCompletePreservesOrder(t *testing.T) {
	stub := &stubCapability{}
	b := NewBatcher(stub)

	reqs := make([]Request, 10)
	for i := range reqs {
		reqs[i] = Request{User: fmt.Sprintf("item-%d", i)}
	}

	out, err := b.Complete(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, got := range out {
		want := fmt.Sprintf("echo:item-%d", i)
		if got != want {
			t.Fatalf("result %d: got %q want %q", i, got, want)
		}
	}
}

func TestBatcherCompleteRejectsOversizedRequest(t *testing.T) {
	stub := &stubCapability{}
	b := NewBatcher(stub).WithMaxBatchTokens(1)

	out, err := b.Complete(context.Background(), []Request{{User: strings.Repeat("word ", 100)}})
	if err == nil {
		t.Fatal("expected an error for an oversized request")
	}
	if out[0] != "" {
		t.Fatalf("expected empty text for a rejected request, got %q", out[0])
	}
}

func TestBatcherCompleteEmptyIsNoop(t *testing.T) {
	stub := &stubCapability{}
	b := NewBatcher(stub)
	out, err := b.Complete(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("expected nil, nil for no requests, got %v, %v", out, err)
	}
}
