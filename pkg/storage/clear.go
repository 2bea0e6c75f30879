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

// clearTable removes every row of table, regardless of key shape. Used by
// the bulk clear operations below, which truncate rather than delete by key
// (spec §6 `clear` subcommand).
func (b *EmbeddedBackend) clearTable(ctx context.Context, table, key string) error {
	script := fmt.Sprintf(`
?[%s] := *%s{%s}
:rm %s { %s }
`, key, table, key, table, key)
	return b.Execute(ctx, script, nil)
}

// ClearDocuments removes every file row and every code/text/doc block
// (spec §6 `clear --documents`). Graph nodes, edges and memories are left
// untouched.
func (b *EmbeddedBackend) ClearDocuments(ctx context.Context) error {
	if err := b.clearTable(ctx, "files", "path"); err != nil {
		return fmt.Errorf("storage: clear files: %w", err)
	}
	for _, kind := range []model.BlockKind{model.KindCode, model.KindText, model.KindDoc} {
		if err := b.clearTable(ctx, kind.Table(), "id"); err != nil {
			return fmt.Errorf("storage: clear %s blocks: %w", kind, err)
		}
	}
	return nil
}

// ClearGraph removes every graph node and edge (spec §6 `clear --graphs`).
func (b *EmbeddedBackend) ClearGraph(ctx context.Context) error {
	if err := b.clearTable(ctx, "graph_edges", "source_id, target_id, kind"); err != nil {
		return fmt.Errorf("storage: clear graph_edges: %w", err)
	}
	if err := b.clearTable(ctx, "graph_nodes", "node_id"); err != nil {
		return fmt.Errorf("storage: clear graph_nodes: %w", err)
	}
	return nil
}
