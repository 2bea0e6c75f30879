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
	"encoding/json"
	"fmt"

	"github.com/bysensa/octocode/pkg/model"
)

// Dims carries the embedding dimensionality for the two model families
// (spec §4.4: one model for code blocks, one for text/doc blocks, graph
// nodes and memories).
type Dims struct {
	Code int
	Text int
}

func blockTableSchema(table string, dim int) string {
	return fmt.Sprintf(`:create %s {
	id: String =>
	path: String,
	language: String,
	symbols: String,
	start_line: Int,
	end_line: Int,
	content: String,
	embedding: <F32; %d>
}`, table, dim)
}

// schemaStatements returns every :create statement needed by the store.
// Each is executed independently so "already exists" on one never blocks
// the rest (idempotent, matching the teacher's EnsureSchema pattern).
func schemaStatements(d Dims) []string {
	return []string{
		`:create files {
	path: String =>
	language: String,
	content_hash: String,
	last_modified: Int,
	last_commit: String
}`,
		blockTableSchema(model.KindCode.Table(), d.Code),
		blockTableSchema(model.KindText.Table(), d.Text),
		blockTableSchema(model.KindDoc.Table(), d.Text),
		fmt.Sprintf(`:create graph_nodes {
	node_id: String =>
	description: String,
	symbols: String,
	imports: String,
	exports: String,
	language: String,
	embedding: <F32; %d>
}`, d.Text),
		`:create graph_edges {
	source_id: String,
	target_id: String,
	kind: String =>
	weight: Float,
	confidence: Float
}`,
		fmt.Sprintf(`:create memories {
	id: String =>
	title: String,
	content: String,
	memory_type: String,
	importance: Float,
	tags: String,
	related_files: String,
	git_commit: String,
	created_at: Int,
	updated_at: Int,
	embedding: <F32; %d>
}`, d.Text),
		`:create memory_links {
	source_id: String,
	target_id: String =>
}`,
	}
}

// hnswIndexStatement builds (or rebuilds) the HNSW index used as the
// physical mechanism behind the VectorOptimizer's IVF_PQ-shaped policy
// (spec §9's open question licenses an equivalent substitute rule).
func hnswIndexStatement(table string, dim, m, efConstruction int) string {
	return fmt.Sprintf(
		`::hnsw create %s:vec_idx { dim: %d, m: %d, ef_construction: %d, fields: [embedding], dtype: F32 }`,
		table, dim, m, efConstruction,
	)
}

func hnswDropStatement(table string) string {
	return fmt.Sprintf(`::hnsw drop %s:vec_idx`, table)
}

func encodeStrings(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

func decodeStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s), &out)
	return out
}
