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

	cerrors "github.com/bysensa/octocode/internal/errors"
)

// knownSections lists every recognized key under each top-level section
// other than embedding, which is validated separately since its subkeys are
// a mix of two plain strings and arbitrary provider tables.
var knownSections = map[string]map[string]bool{
	"index": {
		"chunk_size":            true,
		"chunk_overlap":         true,
		"embeddings_batch_size": true,
		"max_batch_tokens":      true,
		"require_git":           true,
		"graphrag_enabled":      true,
	},
	"search": {
		"max_results":          true,
		"similarity_threshold": true,
		"output_format":        true,
	},
	"graphrag": {
		"use_llm":              true,
		"confidence_threshold": true,
	},
	"memory": {
		"enabled":      true,
		"max_memories": true,
	},
	"watch": {
		"debounce_seconds":    true,
		"additional_delay_ms": true,
	},
}

// validateKeys rejects any key the file sets that spec §6 doesn't
// recognize: a typo'd or stale option fails loudly at startup instead of
// being silently ignored.
func validateKeys(raw map[string]interface{}) error {
	for section, value := range raw {
		if section == "embedding" {
			if err := validateEmbeddingKeys(value); err != nil {
				return err
			}
			continue
		}
		allowed, ok := knownSections[section]
		if !ok {
			return unknownKeyError(section)
		}
		table, ok := value.(map[string]interface{})
		if !ok {
			return cerrors.NewConfigError(
				fmt.Sprintf("Invalid config section %q", section),
				"expected a table",
				"",
				nil,
			)
		}
		for key := range table {
			if !allowed[key] {
				return unknownKeyError(section + "." + key)
			}
		}
	}
	return nil
}

func validateEmbeddingKeys(value interface{}) error {
	table, ok := value.(map[string]interface{})
	if !ok {
		return cerrors.NewConfigError("Invalid config section \"embedding\"", "expected a table", "", nil)
	}
	for key, v := range table {
		switch key {
		case "code_model", "text_model":
			continue
		default:
			// Everything else must be a provider table with only api_key.
			providerTable, ok := v.(map[string]interface{})
			if !ok {
				return unknownKeyError("embedding." + key)
			}
			for providerKey := range providerTable {
				if providerKey != "api_key" {
					return unknownKeyError(fmt.Sprintf("embedding.%s.%s", key, providerKey))
				}
			}
		}
	}
	return nil
}

func unknownKeyError(key string) error {
	return cerrors.NewConfigError(
		fmt.Sprintf("Unknown config option %q", key),
		"this key is not in the recognized option list",
		"Run 'octocode init' to see every recognized key, or remove this entry",
		nil,
	)
}
