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
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	cerrors "github.com/bysensa/octocode/internal/errors"
)

// Defaults for every recognized key (spec §6). These are the values
// config.Default returns and the ones the generated template file spells
// out explicitly — nothing here is a hidden default.
const (
	DefaultChunkSize           = 2000
	DefaultChunkOverlap        = 100
	DefaultEmbeddingsBatchSize = 16
	DefaultMaxBatchTokens      = 100_000
	DefaultRequireGit          = true

	DefaultMaxResults          = 20
	MaxSearchResults           = 20
	DefaultSimilarityThreshold = 0.65
	DefaultOutputFormat        = "text"

	DefaultConfidenceThreshold = 0.8

	DefaultDebounceSeconds   = 2
	DefaultAdditionalDelayMS = 1000
)

// Embedding is the embedding.* section.
type Embedding struct {
	CodeModel string
	TextModel string

	// APIKeys holds embedding.<provider>.api_key entries keyed by provider
	// name. ResolveAPIKey overlays the matching <PROVIDER>_API_KEY
	// environment variable, which takes precedence (spec §6).
	APIKeys map[string]string
}

// ResolveAPIKey returns the credential for provider, preferring the
// <PROVIDER>_API_KEY environment variable over the config file.
func (e Embedding) ResolveAPIKey(provider string) string {
	if v := os.Getenv(strings.ToUpper(provider) + "_API_KEY"); v != "" {
		return v
	}
	return e.APIKeys[provider]
}

// Index is the index.* section.
type Index struct {
	ChunkSize           int
	ChunkOverlap        int
	EmbeddingsBatchSize int
	MaxBatchTokens      int
	RequireGit          bool
	GraphRAGEnabled     bool
}

// Search is the search.* section.
type Search struct {
	MaxResults          int
	SimilarityThreshold float64
	OutputFormat        string
}

// GraphRAG is the graphrag.* section.
type GraphRAG struct {
	UseLLM              bool
	ConfidenceThreshold float64
}

// Memory is the memory.* section.
type Memory struct {
	Enabled     bool
	MaxMemories int
}

// Watch is the watch.* section.
type Watch struct {
	DebounceSeconds   int
	AdditionalDelayMS int
}

// Config is the full recognized set of octocode options (spec §6).
type Config struct {
	Embedding Embedding
	Index     Index
	Search    Search
	GraphRAG  GraphRAG
	Memory    Memory
	Watch     Watch
}

// Default returns the configuration that applies when a key is absent from
// both the file and the environment.
func Default() Config {
	return Config{
		Index: Index{
			ChunkSize:           DefaultChunkSize,
			ChunkOverlap:        DefaultChunkOverlap,
			EmbeddingsBatchSize: DefaultEmbeddingsBatchSize,
			MaxBatchTokens:      DefaultMaxBatchTokens,
			RequireGit:          DefaultRequireGit,
		},
		Search: Search{
			MaxResults:          DefaultMaxResults,
			SimilarityThreshold: DefaultSimilarityThreshold,
			OutputFormat:        DefaultOutputFormat,
		},
		GraphRAG: GraphRAG{
			ConfidenceThreshold: DefaultConfidenceThreshold,
		},
		Watch: Watch{
			DebounceSeconds:   DefaultDebounceSeconds,
			AdditionalDelayMS: DefaultAdditionalDelayMS,
		},
	}
}

// Load reads and validates the TOML file at path and layers it over Default.
// An environment variable named after a recognized key, upper-cased with
// "." replaced by "_" (e.g. INDEX_CHUNK_SIZE), overrides both. path == ""
// skips the file but still applies those environment overrides.
//
// Unknown keys are rejected outright (spec §6): BurntSushi/toml decodes the
// file into a generic map first so validateKeys can walk every key the
// author actually wrote, independent of what viper ends up resolving.
func Load(path string) (*Config, error) {
	cfg := Default()

	var raw map[string]interface{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, cerrors.NewConfigError(
					"Config file not found",
					path,
					"Run 'octocode init' to generate a config file with every recognized key",
					err,
				)
			}
			return nil, cerrors.NewConfigError("Cannot read config file", err.Error(), "", err)
		}
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, cerrors.NewConfigError("Config file is not valid TOML", err.Error(), "Check the file for syntax errors", err)
		}
		if err := validateKeys(raw); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigType("toml")
	applyDefaults(v, cfg)
	if raw != nil {
		if err := v.MergeConfigMap(raw); err != nil {
			return nil, cerrors.NewConfigError("Cannot load config file", err.Error(), "", err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg.Embedding.CodeModel = v.GetString("embedding.code_model")
	cfg.Embedding.TextModel = v.GetString("embedding.text_model")
	cfg.Embedding.APIKeys = extractProviderKeys(raw)

	cfg.Index.ChunkSize = v.GetInt("index.chunk_size")
	cfg.Index.ChunkOverlap = v.GetInt("index.chunk_overlap")
	cfg.Index.EmbeddingsBatchSize = v.GetInt("index.embeddings_batch_size")
	cfg.Index.MaxBatchTokens = v.GetInt("index.max_batch_tokens")
	cfg.Index.RequireGit = v.GetBool("index.require_git")
	cfg.Index.GraphRAGEnabled = v.GetBool("index.graphrag_enabled")

	cfg.Search.MaxResults = v.GetInt("search.max_results")
	cfg.Search.SimilarityThreshold = v.GetFloat64("search.similarity_threshold")
	cfg.Search.OutputFormat = v.GetString("search.output_format")

	cfg.GraphRAG.UseLLM = v.GetBool("graphrag.use_llm")
	cfg.GraphRAG.ConfidenceThreshold = v.GetFloat64("graphrag.confidence_threshold")

	cfg.Memory.Enabled = v.GetBool("memory.enabled")
	cfg.Memory.MaxMemories = v.GetInt("memory.max_memories")

	cfg.Watch.DebounceSeconds = v.GetInt("watch.debounce_seconds")
	cfg.Watch.AdditionalDelayMS = v.GetInt("watch.additional_delay_ms")

	if err := validateRanges(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults seeds v with Default's values so absent keys resolve to
// them instead of viper's own zero values.
func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("index.chunk_size", cfg.Index.ChunkSize)
	v.SetDefault("index.chunk_overlap", cfg.Index.ChunkOverlap)
	v.SetDefault("index.embeddings_batch_size", cfg.Index.EmbeddingsBatchSize)
	v.SetDefault("index.max_batch_tokens", cfg.Index.MaxBatchTokens)
	v.SetDefault("index.require_git", cfg.Index.RequireGit)
	v.SetDefault("index.graphrag_enabled", cfg.Index.GraphRAGEnabled)

	v.SetDefault("search.max_results", cfg.Search.MaxResults)
	v.SetDefault("search.similarity_threshold", cfg.Search.SimilarityThreshold)
	v.SetDefault("search.output_format", cfg.Search.OutputFormat)

	v.SetDefault("graphrag.use_llm", cfg.GraphRAG.UseLLM)
	v.SetDefault("graphrag.confidence_threshold", cfg.GraphRAG.ConfidenceThreshold)

	v.SetDefault("memory.enabled", cfg.Memory.Enabled)
	v.SetDefault("memory.max_memories", cfg.Memory.MaxMemories)

	v.SetDefault("watch.debounce_seconds", cfg.Watch.DebounceSeconds)
	v.SetDefault("watch.additional_delay_ms", cfg.Watch.AdditionalDelayMS)
}

// extractProviderKeys pulls embedding.<provider>.api_key entries out of the
// raw decoded file. code_model and text_model are plain string keys, not
// provider tables, so they're skipped here.
func extractProviderKeys(raw map[string]interface{}) map[string]string {
	keys := map[string]string{}
	section, _ := raw["embedding"].(map[string]interface{})
	for name, v := range section {
		if name == "code_model" || name == "text_model" {
			continue
		}
		table, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if apiKey, ok := table["api_key"].(string); ok {
			keys[name] = apiKey
		}
	}
	return keys
}

func validateRanges(cfg *Config) error {
	switch {
	case cfg.Index.ChunkSize <= 0:
		return cerrors.NewConfigError("Invalid index.chunk_size", "must be positive", "", nil)
	case cfg.Index.ChunkOverlap < 0 || cfg.Index.ChunkOverlap >= cfg.Index.ChunkSize:
		return cerrors.NewConfigError("Invalid index.chunk_overlap", "must be in [0, chunk_size)", "", nil)
	case cfg.Index.EmbeddingsBatchSize <= 0:
		return cerrors.NewConfigError("Invalid index.embeddings_batch_size", "must be positive", "", nil)
	case cfg.Index.MaxBatchTokens <= 0:
		return cerrors.NewConfigError("Invalid index.max_batch_tokens", "must be positive", "", nil)
	case cfg.Search.MaxResults <= 0 || cfg.Search.MaxResults > MaxSearchResults:
		return cerrors.NewConfigError("Invalid search.max_results", fmt.Sprintf("must be in [1, %d]", MaxSearchResults), "", nil)
	case cfg.Search.SimilarityThreshold < 0 || cfg.Search.SimilarityThreshold > 1:
		return cerrors.NewConfigError("Invalid search.similarity_threshold", "must be in [0, 1]", "", nil)
	case cfg.Search.OutputFormat != "text" && cfg.Search.OutputFormat != "markdown" && cfg.Search.OutputFormat != "json":
		return cerrors.NewConfigError("Invalid search.output_format", "must be text, markdown, or json", "", nil)
	case cfg.GraphRAG.ConfidenceThreshold < 0 || cfg.GraphRAG.ConfidenceThreshold > 1:
		return cerrors.NewConfigError("Invalid graphrag.confidence_threshold", "must be in [0, 1]", "", nil)
	case cfg.Watch.DebounceSeconds < 1 || cfg.Watch.DebounceSeconds > 30:
		return cerrors.NewConfigError("Invalid watch.debounce_seconds", "must be in [1, 30]", "", nil)
	case cfg.Watch.AdditionalDelayMS < 0 || cfg.Watch.AdditionalDelayMS > 5000:
		return cerrors.NewConfigError("Invalid watch.additional_delay_ms", "must be in [0, 5000]", "", nil)
	}
	return nil
}
