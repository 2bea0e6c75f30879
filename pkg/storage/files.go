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
	"fmt"

	"github.com/bysensa/octocode/pkg/model"
)

// UpsertFile sets content_hash/last_modified/last_commit for path,
// retaining a single row per path (spec §4.5 Upsert API).
func (b *EmbeddedBackend) UpsertFile(ctx context.Context, f model.File) error {
	script := `
?[path, language, content_hash, last_modified, last_commit] <- [[$path, $language, $hash, $mtime, $commit]]
:put files { path, language, content_hash, last_modified, last_commit }
`
	return b.Execute(ctx, script, map[string]any{
		"path": f.Path, "language": f.Language, "hash": f.ContentHash,
		"mtime": f.LastModified, "commit": f.LastCommit,
	})
}

// GetFile returns the File row for path, or ok=false if absent.
func (b *EmbeddedBackend) GetFile(ctx context.Context, path string) (f model.File, ok bool, err error) {
	script := `?[path, language, content_hash, last_modified, last_commit] := *files{path, language, content_hash, last_modified, last_commit}, path == $path`
	res, err := b.Query(ctx, script, map[string]any{"path": path})
	if err != nil {
		return model.File{}, false, err
	}
	if len(res.Rows) == 0 {
		return model.File{}, false, nil
	}
	row := res.Rows[0]
	return model.File{
		Path: asString(row[0]), Language: asString(row[1]), ContentHash: asString(row[2]),
		LastModified: int64(asInt(row[3])), LastCommit: asString(row[4]),
	}, true, nil
}

// ListFiles returns every File row, used to build the state snapshot
// (spec §4.6 step 2).
func (b *EmbeddedBackend) ListFiles(ctx context.Context) ([]model.File, error) {
	script := `?[path, language, content_hash, last_modified, last_commit] := *files{path, language, content_hash, last_modified, last_commit}`
	res, err := b.Query(ctx, script, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.File, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.File{
			Path: asString(row[0]), Language: asString(row[1]), ContentHash: asString(row[2]),
			LastModified: int64(asInt(row[3])), LastCommit: asString(row[4]),
		})
	}
	return out, nil
}

// DeleteByPath removes every Block (all kinds), then the Node, then every
// edge incident to it (inbound and outbound), then the File row itself —
// the ordering spec §3 requires
// ("Blocks first, then Node, then inbound edges").
func (b *EmbeddedBackend) DeleteByPath(ctx context.Context, path string) error {
	for _, kind := range []model.BlockKind{model.KindCode, model.KindText, model.KindDoc} {
		if err := b.DeleteBlocksByPath(ctx, kind, path); err != nil {
			return fmt.Errorf("storage: delete %s blocks: %w", kind, err)
		}
	}
	if err := b.DeleteNode(ctx, path); err != nil {
		return fmt.Errorf("storage: delete node: %w", err)
	}
	if err := b.deleteFileRow(ctx, path); err != nil {
		return fmt.Errorf("storage: delete file row: %w", err)
	}
	return nil
}

func (b *EmbeddedBackend) deleteFileRow(ctx context.Context, path string) error {
	script := `?[path] <- [[$path]] :rm files { path }`
	return b.Execute(ctx, script, map[string]any{"path": path})
}
