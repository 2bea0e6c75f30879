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

package statedir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bysensa/octocode/internal/config"
)

// Sidecar is the small JSON record persisted alongside the vector database
// (spec §6): the commit the last successful cycle indexed through, and a
// checksum of the config fields that affect what got indexed.
type Sidecar struct {
	LastIndexedCommit string `json:"last_indexed_commit"`
	ConfigVersion     uint64 `json:"config_version"`
}

// LoadSidecar reads the sidecar, returning a zero value if it doesn't exist
// yet (first index of this root).
func (d Dir) LoadSidecar() (Sidecar, error) {
	data, err := os.ReadFile(d.sidecarPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Sidecar{}, nil
		}
		return Sidecar{}, fmt.Errorf("statedir: read sidecar: %w", err)
	}
	var s Sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return Sidecar{}, fmt.Errorf("statedir: parse sidecar: %w", err)
	}
	return s, nil
}

// SaveSidecar persists s, writing to a temp file and renaming over the
// target so a crash mid-write never leaves a truncated sidecar behind.
func (d Dir) SaveSidecar(s Sidecar) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("statedir: marshal sidecar: %w", err)
	}
	tmp := d.sidecarPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("statedir: write sidecar: %w", err)
	}
	if err := os.Rename(tmp, d.sidecarPath()); err != nil {
		return fmt.Errorf("statedir: commit sidecar: %w", err)
	}
	return nil
}

// ConfigVersion checksums the config.Config fields that change what an
// index cycle actually produces. A changed version tells a caller the
// persisted state was built under different indexing semantics (chunking,
// models, GraphRAG on/off), independent of LastIndexedCommit tracking
// which content has already been seen.
func ConfigVersion(cfg config.Config) uint64 {
	h := sha256.New()
	fmt.Fprintf(h, "chunk_size=%d\nchunk_overlap=%d\ncode_model=%s\ntext_model=%s\ngraphrag_enabled=%t\n",
		cfg.Index.ChunkSize, cfg.Index.ChunkOverlap,
		cfg.Embedding.CodeModel, cfg.Embedding.TextModel,
		cfg.Index.GraphRAGEnabled,
	)
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
