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

package watch

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestDispatchCoalescesWhileInFlight exercises spec §4.10's "a reindex is
// already in flight: the supervisor enqueues at most one pending cycle;
// further events coalesce into it" directly against dispatch/runCycle,
// without a real filesystem watcher.
func TestDispatchCoalescesWhileInFlight(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string
	release := make(chan struct{})
	started := make(chan struct{}, 4)

	reindex := func(ctx context.Context, paths []string) error {
		mu.Lock()
		calls = append(calls, paths)
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil
	}

	s := New(Config{Reindex: reindex})
	s.dispatch(context.Background(), []string{"a.go"}, nil)
	<-started // first cycle is now blocked inside reindex

	// Two more dispatches arrive while the first is in flight; both must
	// coalesce into a single pending cycle, not run concurrently.
	s.dispatch(context.Background(), []string{"b.go"}, nil)
	s.dispatch(context.Background(), []string{"c.go"}, nil)

	s.mu.Lock()
	inFlight, pending := s.inFlight, s.pending
	s.mu.Unlock()
	if !inFlight || !pending {
		t.Fatalf("expected inFlight=true pending=true, got inFlight=%v pending=%v", inFlight, pending)
	}

	release <- struct{}{} // let the first cycle finish; the pending one starts
	<-started

	release <- struct{}{} // let the coalesced cycle finish
	time.Sleep(10 * time.Millisecond)

	s.mu.Lock()
	inFlight = s.inFlight
	s.mu.Unlock()
	if inFlight {
		t.Fatal("expected inFlight=false once no cycle is pending")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 reindex calls (first + coalesced), got %d", len(calls))
	}
	second := map[string]bool{}
	for _, p := range calls[1] {
		second[p] = true
	}
	if !second["b.go"] || !second["c.go"] {
		t.Fatalf("expected coalesced call to contain b.go and c.go, got %v", calls[1])
	}
}

func TestDispatchRunsImmediatelyWhenIdle(t *testing.T) {
	var called bool
	done := make(chan struct{})
	reindex := func(ctx context.Context, paths []string) error {
		called = true
		close(done)
		return nil
	}
	s := New(Config{Reindex: reindex})
	s.dispatch(context.Background(), []string{"a.go"}, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected reindex to run")
	}
	if !called {
		t.Fatal("expected reindex to have been called")
	}
}
