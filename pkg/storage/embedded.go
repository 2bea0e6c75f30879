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
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	cozo "github.com/bysensa/octocode/pkg/cozodb"
)

// EmbeddedBackend implements Backend using a local CozoDB instance. This is
// the only backend octocode ships (single-host, single-process; spec §1
// non-goals exclude distributed operation).
type EmbeddedBackend struct {
	db        *cozo.CozoDB
	mu        sync.RWMutex
	closed    bool
	optimizer *VectorOptimizer
	logger    *slog.Logger
}

// EmbeddedConfig configures the embedded backend.
type EmbeddedConfig struct {
	// DataDir is the directory where CozoDB stores its data.
	DataDir string

	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	// Defaults to "rocksdb" for persistence.
	Engine string

	Logger *slog.Logger
}

// NewEmbeddedBackend opens (creating if absent) the CozoDB database under
// config.DataDir.
func NewEmbeddedBackend(config EmbeddedConfig) (*EmbeddedBackend, error) {
	if config.Engine == "" {
		config.Engine = "rocksdb"
	}
	if config.DataDir == "" {
		return nil, fmt.Errorf("storage: DataDir is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := cozo.New(config.Engine, filepath.Join(config.DataDir, "vectors"), nil)
	if err != nil {
		return nil, fmt.Errorf("open cozodb: %w", err)
	}

	b := &EmbeddedBackend{db: &db, logger: config.Logger}
	b.optimizer = NewVectorOptimizer(b, config.Logger)
	return b, nil
}

// Query executes a read-only Datalog query. Safe to call concurrently with
// an in-progress Execute (spec §5: "search is read-only and may run
// concurrently with indexing; it observes committed writes only").
func (b *EmbeddedBackend) Query(ctx context.Context, datalog string, params map[string]any) (*QueryResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("storage: backend is closed")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := b.db.RunReadOnly(datalog, params)
	if err != nil {
		return nil, fmt.Errorf("storage: query failed: %w", err)
	}
	return FromNamedRows(result), nil
}

// Execute runs a Datalog mutation. The store is single-writer (spec §5);
// this mutex is the in-process half of that guarantee, the state-directory
// lock file (internal/statedir) is the cross-process half.
func (b *EmbeddedBackend) Execute(ctx context.Context, datalog string, params map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("storage: backend is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	_, err := b.db.Run(datalog, params)
	if err != nil {
		return fmt.Errorf("storage: execute failed: %w", err)
	}
	return nil
}

// Close closes the database connection. Safe to call more than once.
func (b *EmbeddedBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.db.Close()
	return nil
}

// EnsureSchema creates every relation the store needs if it doesn't already
// exist. Idempotent: "already exists" errors from individual :create
// statements are swallowed, exactly as the teacher's EnsureSchema does.
func (b *EmbeddedBackend) EnsureSchema(ctx context.Context, dims Dims) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("storage: backend is closed")
	}
	for _, stmt := range schemaStatements(dims) {
		if _, err := b.db.Run(stmt, nil); err != nil {
			b.logger.Debug("storage.schema.skip", "reason", err.Error())
		}
	}
	return nil
}

// rowCount returns the number of rows currently in table, used by the
// VectorOptimizer to decide whether to (re)build an index.
func (b *EmbeddedBackend) rowCount(table string) (int, error) {
	script := fmt.Sprintf(`?[count(x)] := *%s{}, x = 1`, table)
	res, err := b.db.RunReadOnly(script, nil)
	if err != nil {
		return 0, err
	}
	if len(res.Rows) == 0 || len(res.Rows[0]) == 0 {
		return 0, nil
	}
	switch v := res.Rows[0][0].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("storage: unexpected count type %T", v)
	}
}
