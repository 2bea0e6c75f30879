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

import (
	"log/slog"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/region"
)

const (
	defaultEmbeddingsBatchSize = 16
	defaultMaxBatchTokens      = 100_000
	// durabilityFlushEveryBatches is spec §4.6 step 6: "every 2 batches ...
	// force a store flush". Blocks already reach the store per-batch
	// (StoreBlocks commits immediately), so this cycle counts batches
	// between File-row checkpoint writes instead — see the checkpoint closure
	// in Pipeline.Run.
	durabilityFlushEveryBatches = 2
)

// Config configures one Pipeline run (spec §4.6, §6).
type Config struct {
	// Root is the working root to index.
	Root string

	// CodeProvider embeds code blocks (embedding.code_model).
	CodeProvider embedding.Provider
	// TextProvider embeds text/doc blocks (embedding.text_model).
	TextProvider embedding.Provider

	// RegionOptions carries index.chunk_size / index.chunk_overlap through
	// to pkg/region.Build.
	RegionOptions region.Options

	// EmbeddingsBatchSize is index.embeddings_batch_size; <= 0 defaults to 16.
	EmbeddingsBatchSize int
	// MaxBatchTokens is index.max_batch_tokens; <= 0 defaults to 100,000.
	MaxBatchTokens int

	// MaxFileSizeBytes bounds which files the walker will enumerate. 0 means
	// unlimited.
	MaxFileSizeBytes int64

	// RequireGit is index.require_git: refuse non-repo roots unless NoGit.
	RequireGit bool
	// NoGit is the --no-git override.
	NoGit bool
	// Reindex is --reindex: force full enumeration even when a prior
	// last_indexed_commit is on record.
	Reindex bool

	// GraphRAGEnabled is index.graphrag_enabled. When true and Graph is
	// non-nil, Pipeline.Run invokes it at the end of the cycle (step 7).
	GraphRAGEnabled bool
	// Graph reconciles the knowledge graph over the changed path set. May
	// be nil even when GraphRAGEnabled is true, in which case step 7 is
	// skipped — callers that enable GraphRAG are expected to supply one.
	Graph GraphReconciler

	Logger *slog.Logger
}

func (c Config) embeddingsBatchSize() int {
	if c.EmbeddingsBatchSize > 0 {
		return c.EmbeddingsBatchSize
	}
	return defaultEmbeddingsBatchSize
}

func (c Config) maxBatchTokens() int {
	if c.MaxBatchTokens > 0 {
		return c.MaxBatchTokens
	}
	return defaultMaxBatchTokens
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
