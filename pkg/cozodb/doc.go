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

// Package cozodb provides a Go binding for CozoDB v0.7.6+.
//
// CozoDB is a Datalog-based embedded database designed for graph queries
// and complex data relationships. octocode uses it as the single columnar
// substrate for file/block records, the file-level GraphRAG, and the memory
// subsystem, including CozoDB's HNSW vector index for the VectorOptimizer.
//
// # Requirements
//
// This package requires CGO and the CozoDB C library (libcozo_c). Build with:
//
//	CGO_ENABLED=1 go build
//
// The CozoDB library must be installed on your system:
//
//	# macOS (Homebrew)
//	brew install cozodb
//
//	# Linux (from source or package manager)
//	# See https://github.com/cozodb/cozo for installation
//
// You may need to set library paths:
//
//	export CGO_LDFLAGS="-L/path/to/libcozo_c"
//	export CGO_CFLAGS="-I/path/to/cozo_c.h"
//
// # Storage Engines
//
// CozoDB supports multiple storage backends:
//   - "mem": In-memory, fast but not persisted (good for testing)
//   - "sqlite": SQLite-backed, single-file persistence
//   - "rocksdb": RocksDB-backed, best performance for production
//
// # Quick Start
//
// Open a database and run queries:
//
//	db, err := cozodb.New("rocksdb", "/path/to/data", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	result, err := db.Run(`?[x] := x = 1 + 1`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("1 + 1 = %v\n", result.Rows[0][0])
//
// # Read-Only Queries
//
// Use RunReadOnly for queries that should not modify data; it enforces
// read-only semantics at the database level. It does not by itself let
// search run alongside indexing: the CLI's search command takes the same
// state-directory lock as index and watch, so it fails while either holds it.
//
//	result, err := db.RunReadOnly(`?[path] := *files{path}`, nil)
//
// # Parameterized Queries
//
//	params := map[string]any{"path": "src/lib.rs"}
//	result, err := db.Run(`
//	    ?[id, content] :=
//	        *code_blocks{id, path, content},
//	        path == $path
//	`, params)
//
// # Backup and Restore
//
//	err := db.Backup("/path/to/backup.db")
//	err := db.Restore("/path/to/backup.db")
//
// # Relations
//
// octocode's relations (tables), created by pkg/storage:
//
//	files            - indexed source files with metadata
//	code_blocks      - code regions with embeddings (one table per kind)
//	text_blocks      - plain-text regions with embeddings
//	doc_blocks       - markdown regions with embeddings
//	graph_nodes      - GraphRAG file nodes with embeddings
//	graph_edges      - GraphRAG edges (imports/sibling/parent/child)
//	memories         - memory records with embeddings
//	memory_links     - memory-to-memory relations
//
// # Version Compatibility
//
// This binding targets CozoDB v0.7.6+ which includes the immutable_query
// parameter in the C API. Earlier versions may not work correctly with
// the RunReadOnly method.
package cozodb
