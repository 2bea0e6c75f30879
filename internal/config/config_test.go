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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "octocode.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, cfg.Index.ChunkSize)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, DefaultDebounceSeconds, cfg.Watch.DebounceSeconds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[index]
chunk_size = 500

[search]
output_format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Index.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.Index.ChunkOverlap)
	assert.Equal(t, "json", cfg.Search.OutputFormat)
}

func TestLoadRejectsUnknownTopLevelSection(t *testing.T) {
	path := writeFile(t, "[bogus]\nfoo = 1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeyInKnownSection(t *testing.T) {
	path := writeFile(t, "[index]\ntypo_key = 1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidRange(t *testing.T) {
	path := writeFile(t, "[watch]\ndebounce_seconds = 100\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestEmbeddingResolveAPIKeyPrefersEnv(t *testing.T) {
	t.Setenv("VOYAGE_API_KEY", "from-env")
	e := Embedding{APIKeys: map[string]string{"voyage": "from-file"}}
	assert.Equal(t, "from-env", e.ResolveAPIKey("voyage"))
}

func TestEmbeddingResolveAPIKeyFallsBackToFile(t *testing.T) {
	e := Embedding{APIKeys: map[string]string{"voyage": "from-file"}}
	assert.Equal(t, "from-file", e.ResolveAPIKey("voyage"))
}

func TestLoadExtractsProviderAPIKey(t *testing.T) {
	path := writeFile(t, "[embedding.voyage]\napi_key = \"file-key\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Embedding.APIKeys["voyage"])
}

func TestLoadRejectsUnknownEmbeddingProviderKey(t *testing.T) {
	path := writeFile(t, "[embedding.voyage]\nbogus = \"x\"\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestRenderedIncludesEveryRecognizedKey(t *testing.T) {
	out := Rendered()
	for _, key := range []string{
		"code_model", "text_model", "chunk_size", "chunk_overlap",
		"embeddings_batch_size", "max_batch_tokens", "require_git", "graphrag_enabled",
		"max_results", "similarity_threshold", "output_format",
		"use_llm", "confidence_threshold", "enabled", "max_memories",
		"debounce_seconds", "additional_delay_ms",
	} {
		assert.Contains(t, out, key)
	}
}
