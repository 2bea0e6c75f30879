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

package indexer

import "context"

// GraphReconciler is the capability C8 (GraphRAG) exposes to the indexer:
// reconcile the knowledge graph restricted to a changed-path set at the end
// of a cycle (spec §4.6 step 7). Declared here rather than imported from
// pkg/graphrag so the dependency runs the expected direction — graphrag
// depends on the block/file model, not the other way around; the concrete
// builder is wired in by the CLI bootstrap.
type GraphReconciler interface {
	Reconcile(ctx context.Context, changedPaths []string) error
}
