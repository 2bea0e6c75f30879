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

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/model"
	"github.com/bysensa/octocode/pkg/storage"
)

// Store implements the memory subsystem's CRUD and retrieval (spec §4.9)
// against one backend.
type Store struct {
	backend      *storage.EmbeddedBackend
	textProvider embedding.Provider
}

// New builds a Store. textProvider embeds memorize's title+content and
// remember's queries; it is required.
func New(backend *storage.EmbeddedBackend, textProvider embedding.Provider) *Store {
	return &Store{backend: backend, textProvider: textProvider}
}

// Memorize creates a new memory record: assigns an id, stamps both
// timestamps to now, and embeds "title\ncontent" with the text model
// (spec §4.9: "embeds title + \"\\n\" + content").
func (s *Store) Memorize(ctx context.Context, m model.Memory) (model.Memory, error) {
	m.ID = uuid.NewString()
	now := time.Now().Unix()
	m.CreatedAt = now
	m.UpdatedAt = now

	vecs, err := s.textProvider.Embed(ctx, []string{m.Title + "\n" + m.Content}, embedding.InputDocument)
	if err != nil {
		return model.Memory{}, fmt.Errorf("memory: embed %q: %w", m.Title, err)
	}
	m.Embedding = vecs[0]

	if err := s.backend.UpsertMemory(ctx, m); err != nil {
		return model.Memory{}, err
	}
	return m, nil
}

// Update replaces an existing memory's mutable fields, re-embedding if
// title or content changed, and bumps updated_at. It errors if id is
// absent.
func (s *Store) Update(ctx context.Context, id string, edit func(m *model.Memory)) (model.Memory, error) {
	existing, ok, err := s.backend.GetMemory(ctx, id)
	if err != nil {
		return model.Memory{}, err
	}
	if !ok {
		return model.Memory{}, fmt.Errorf("memory: %s not found", id)
	}

	before := existing.Title + "\n" + existing.Content
	edit(&existing)
	existing.ID = id
	existing.UpdatedAt = time.Now().Unix()

	after := existing.Title + "\n" + existing.Content
	if after != before {
		vecs, err := s.textProvider.Embed(ctx, []string{after}, embedding.InputDocument)
		if err != nil {
			return model.Memory{}, fmt.Errorf("memory: re-embed %s: %w", id, err)
		}
		existing.Embedding = vecs[0]
	}

	if err := s.backend.UpsertMemory(ctx, existing); err != nil {
		return model.Memory{}, err
	}
	return existing, nil
}

// Forget removes a memory and every link touching it.
func (s *Store) Forget(ctx context.Context, id string) error {
	return s.backend.DeleteMemory(ctx, id)
}

// Get returns the memory for id.
func (s *Store) Get(ctx context.Context, id string) (model.Memory, bool, error) {
	return s.backend.GetMemory(ctx, id)
}

// List returns every memory matching filter.
func (s *Store) List(ctx context.Context, filter Filter) ([]model.Memory, error) {
	all, err := s.backend.ListMemories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Memory, 0, len(all))
	for _, m := range all {
		if filter.matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Relate links source to target (spec §4.9's `relate`).
func (s *Store) Relate(ctx context.Context, source, target string) error {
	return s.backend.UpsertMemoryLink(ctx, model.MemoryLink{SourceID: source, TargetID: target})
}

// RelatedTo returns the ids source is linked to.
func (s *Store) RelatedTo(ctx context.Context, source string) ([]string, error) {
	return s.backend.ListLinksFrom(ctx, source)
}

// Stats summarizes the store.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	all, err := s.backend.ListMemories(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{ByType: map[model.MemoryType]int{}}
	if len(all) == 0 {
		return st, nil
	}
	st.Total = len(all)
	var importanceSum float64
	st.OldestUpdated = all[0].UpdatedAt
	st.NewestUpdated = all[0].UpdatedAt
	for _, m := range all {
		st.ByType[m.MemoryType]++
		importanceSum += m.Importance
		if m.UpdatedAt < st.OldestUpdated {
			st.OldestUpdated = m.UpdatedAt
		}
		if m.UpdatedAt > st.NewestUpdated {
			st.NewestUpdated = m.UpdatedAt
		}
	}
	st.AvgImportance = importanceSum / float64(len(all))
	return st, nil
}

// Cleanup removes memories whose importance is below threshold (<= 0
// means defaultCleanupThreshold) and whose updated_at is older than
// maxAge, and returns how many were removed (spec §4.9's `cleanup`).
func (s *Store) Cleanup(ctx context.Context, threshold float64, maxAge time.Duration) (int, error) {
	if threshold <= 0 {
		threshold = defaultCleanupThreshold
	}
	all, err := s.backend.ListMemories(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge).Unix()

	removed := 0
	for _, m := range all {
		if m.Importance < threshold && m.UpdatedAt < cutoff {
			if err := s.backend.DeleteMemory(ctx, m.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// ClearAll deletes every memory record and link. It requires confirm to
// be explicitly true (spec §4.9: "`clear_all` requires explicit
// confirmation").
func (s *Store) ClearAll(ctx context.Context, confirm bool) error {
	if !confirm {
		return fmt.Errorf("memory: clear_all requires explicit confirmation")
	}
	all, err := s.backend.ListMemories(ctx)
	if err != nil {
		return err
	}
	for _, m := range all {
		if err := s.backend.DeleteMemory(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}
