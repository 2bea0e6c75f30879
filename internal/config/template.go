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
)

// Template is the file `octocode init` writes: every recognized key, spelled
// out at its default value, so nothing about what the system will do is
// left implicit (spec §6: "defaults are NOT silently supplied — a config
// template ships with every recognized key").
const Template = `# octocode configuration. Every recognized key is listed below at its
# default value; delete a line to fall back to that default explicitly,
# or edit the value. Unrecognized keys are rejected at load time.

[embedding]
# code_model and text_model are "provider:model" (e.g. "voyage:voyage-code-3").
code_model = ""
text_model = ""

# One [embedding.<provider>] table per provider in use. The matching
# <PROVIDER>_API_KEY environment variable overrides this value.
# [embedding.voyage]
# api_key = ""

[index]
chunk_size = %d
chunk_overlap = %d
embeddings_batch_size = %d
max_batch_tokens = %d
require_git = %t
graphrag_enabled = false

[search]
max_results = %d
similarity_threshold = %v
output_format = "%s"

[graphrag]
use_llm = false
confidence_threshold = %v

[memory]
enabled = false
max_memories = 0

[watch]
debounce_seconds = %d
additional_delay_ms = %d
`

// Rendered returns Template filled in with Default's values.
func Rendered() string {
	d := Default()
	return fmt.Sprintf(Template,
		d.Index.ChunkSize, d.Index.ChunkOverlap, d.Index.EmbeddingsBatchSize, d.Index.MaxBatchTokens, d.Index.RequireGit,
		d.Search.MaxResults, d.Search.SimilarityThreshold, d.Search.OutputFormat,
		d.GraphRAG.ConfidenceThreshold,
		d.Watch.DebounceSeconds, d.Watch.AdditionalDelayMS,
	)
}

// WriteTemplate creates path with Rendered's contents. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(Rendered()), 0o644)
}
