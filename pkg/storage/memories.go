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
	"context"

	"github.com/bysensa/octocode/pkg/model"
)

// UpsertMemory writes or replaces a memory record.
func (b *EmbeddedBackend) UpsertMemory(ctx context.Context, m model.Memory) error {
	script := `
?[id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding] <-
    [[$id, $title, $content, $type, $importance, $tags, $related, $commit, $created, $updated, $embedding]]
:put memories { id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding }
`
	return b.Execute(ctx, script, map[string]any{
		"id": m.ID, "title": m.Title, "content": m.Content, "type": string(m.MemoryType),
		"importance": m.Importance, "tags": encodeStrings(m.Tags), "related": encodeStrings(m.RelatedFiles),
		"commit": m.GitCommit, "created": m.CreatedAt, "updated": m.UpdatedAt, "embedding": encodeEmbedding(m.Embedding),
	})
}

// GetMemory returns the memory for id, or ok=false if absent.
func (b *EmbeddedBackend) GetMemory(ctx context.Context, id string) (m model.Memory, ok bool, err error) {
	script := `?[id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding] := *memories{id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding}, id == $id`
	res, err := b.Query(ctx, script, map[string]any{"id": id})
	if err != nil {
		return model.Memory{}, false, err
	}
	if len(res.Rows) == 0 {
		return model.Memory{}, false, nil
	}
	return rowToMemory(res.Rows[0]), true, nil
}

// ListMemories returns every memory record.
func (b *EmbeddedBackend) ListMemories(ctx context.Context) ([]model.Memory, error) {
	script := `?[id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding] := *memories{id, title, content, memory_type, importance, tags, related_files, git_commit, created_at, updated_at, embedding}`
	res, err := b.Query(ctx, script, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Memory, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, rowToMemory(row))
	}
	return out, nil
}

func rowToMemory(row []any) model.Memory {
	return model.Memory{
		ID: asString(row[0]), Title: asString(row[1]), Content: asString(row[2]),
		MemoryType: model.MemoryType(asString(row[3])), Importance: asFloat(row[4]),
		Tags: decodeStrings(asString(row[5])), RelatedFiles: decodeStrings(asString(row[6])),
		GitCommit: asString(row[7]), CreatedAt: int64(asInt(row[8])), UpdatedAt: int64(asInt(row[9])),
		Embedding: decodeEmbedding(row[10]),
	}
}

// DeleteMemory removes a memory record and every link touching it.
func (b *EmbeddedBackend) DeleteMemory(ctx context.Context, id string) error {
	if err := b.deleteMemoryLinksFor(ctx, id); err != nil {
		return err
	}
	script := `?[id] <- [[$id]] :rm memories { id }`
	return b.Execute(ctx, script, map[string]any{"id": id})
}

func (b *EmbeddedBackend) deleteMemoryLinksFor(ctx context.Context, id string) error {
	script := `
?[source_id, target_id] := *memory_links{source_id, target_id}, source_id == $id
?[source_id, target_id] := *memory_links{source_id, target_id}, target_id == $id
:rm memory_links { source_id, target_id }
`
	return b.Execute(ctx, script, map[string]any{"id": id})
}

// UpsertMemoryLink relates two memories.
func (b *EmbeddedBackend) UpsertMemoryLink(ctx context.Context, link model.MemoryLink) error {
	script := `
?[source_id, target_id] <- [[$src, $dst]]
:put memory_links { source_id, target_id }
`
	return b.Execute(ctx, script, map[string]any{"src": link.SourceID, "dst": link.TargetID})
}

// ListLinksFrom returns the target ids related to source.
func (b *EmbeddedBackend) ListLinksFrom(ctx context.Context, source string) ([]string, error) {
	script := `?[target_id] := *memory_links{source_id, target_id}, source_id == $id`
	res, err := b.Query(ctx, script, map[string]any{"id": source})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, asString(row[0]))
	}
	return out, nil
}

// KNNMemories returns the k nearest memories to query by cosine similarity.
func (b *EmbeddedBackend) KNNMemories(ctx context.Context, query []float32, k int) ([]model.Memory, []float64, error) {
	mems, err := b.ListMemories(ctx)
	if err != nil {
		return nil, nil, err
	}
	sims := make([]float64, len(mems))
	for i, m := range mems {
		sims[i] = cosineSimilarity(query, m.Embedding)
	}
	idxs := topK(sims, k)
	outMems := make([]model.Memory, len(idxs))
	outSims := make([]float64, len(idxs))
	for i, idx := range idxs {
		outMems[i] = mems[idx]
		outSims[i] = sims[idx]
	}
	return outMems, outSims, nil
}
