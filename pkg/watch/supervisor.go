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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Supervisor watches Config.Root for filesystem changes and dispatches
// debounced reindex cycles (spec §4.10). Two cycles are never concurrent:
// a cycle already running coalesces every event that arrives while it
// runs into exactly one pending cycle, fired immediately after.
type Supervisor struct {
	cfg Config

	mu           sync.Mutex
	inFlight     bool
	pending      bool
	pendingPaths map[string]bool
}

// New builds a Supervisor. cfg.Root and cfg.Reindex must be set.
func New(cfg Config) *Supervisor {
	return &Supervisor{cfg: cfg}
}

// Run watches the tree and blocks until ctx is canceled or an
// unrecoverable fsnotify error occurs.
func (s *Supervisor) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer watcher.Close()

	if err := s.addTree(watcher); err != nil {
		return fmt.Errorf("watch: add tree: %w", err)
	}

	debounceWindow := s.cfg.debounceWindow()
	settleDelay := s.cfg.settleDelay()
	logger := s.cfg.logger()

	var debounceTimer *time.Timer
	var settleTimer *time.Timer
	var debounceCh <-chan time.Time
	var settleCh <-chan time.Time
	collected := map[string]bool{}

	stopTimer := func(t *time.Timer) {
		if t != nil {
			t.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer(debounceTimer)
			stopTimer(settleTimer)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			rel, relErr := filepath.Rel(s.cfg.Root, event.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if event.Op&(fsnotify.Create|fsnotify.Remove) != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if !s.isIgnored(rel, true) {
						_ = watcher.Add(event.Name)
					}
					continue
				}
			}
			if s.isIgnored(rel, false) {
				continue
			}

			collected[rel] = true
			stopTimer(debounceTimer)
			debounceTimer = time.NewTimer(debounceWindow)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			stopTimer(settleTimer)
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C

		case <-settleCh:
			settleCh = nil
			paths := make([]string, 0, len(collected))
			for p := range collected {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			collected = map[string]bool{}
			s.dispatch(ctx, paths, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch.fsnotify.error", "err", err)
		}
	}
}

func (s *Supervisor) isIgnored(rel string, isDir bool) bool {
	if s.cfg.IsIgnored == nil {
		return false
	}
	return s.cfg.IsIgnored(rel, isDir)
}

// dispatch starts a reindex cycle, or — if one is already running —
// coalesces paths into the single pending cycle (spec §4.10: "enqueues at
// most one pending cycle; further events coalesce into it").
func (s *Supervisor) dispatch(ctx context.Context, paths []string, logger *slog.Logger) {
	s.mu.Lock()
	if s.inFlight {
		if s.pendingPaths == nil {
			s.pendingPaths = map[string]bool{}
		}
		for _, p := range paths {
			s.pendingPaths[p] = true
		}
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	go s.runCycle(ctx, paths, logger)
}

func (s *Supervisor) runCycle(ctx context.Context, paths []string, logger *slog.Logger) {
	if err := s.cfg.Reindex(ctx, paths); err != nil {
		logger.Warn("watch.reindex.error", "err", err, "paths", len(paths))
	}

	s.mu.Lock()
	var next []string
	if s.pending {
		next = make([]string, 0, len(s.pendingPaths))
		for p := range s.pendingPaths {
			next = append(next, p)
		}
		sort.Strings(next)
		s.pending = false
		s.pendingPaths = nil
	} else {
		s.inFlight = false
	}
	s.mu.Unlock()

	if next != nil {
		go s.runCycle(ctx, next, logger)
	}
}

// addTree registers root and every non-ignored subdirectory with watcher
// (fsnotify is not recursive).
func (s *Supervisor) addTree(watcher *fsnotify.Watcher) error {
	return filepath.Walk(s.cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.cfg.Root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && s.isIgnored(rel, true) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		return nil
	})
}
