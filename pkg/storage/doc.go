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

// Usage:
//
//	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
//	    DataDir: "/path/to/.octocode/myrepo",
//	    Engine:  "rocksdb",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	if err := backend.EnsureSchema(ctx, storage.Dims{Code: 1536, Text: 768}); err != nil {
//	    log.Fatal(err)
//	}
//
//	inserted, err := backend.StoreBlocks(ctx, model.KindCode, blocks)
//
//	results, err := backend.KNN(ctx, model.KindCode, queryVec, 10, storage.Filters{Language: "rust"})
//
// Default values if not specified: Engine = "rocksdb" (recommended for
// persistence; "mem" is useful for tests). DataDir has no default — the
// caller (internal/statedir) computes it from the indexed root.
//
// EmbeddedBackend is safe for concurrent use: reads take an RWMutex read
// lock, writes take the exclusive lock, matching spec §5's single-writer,
// multi-reader requirement for the store.
