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

package graphrag

import (
	"context"
	"fmt"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/ids"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/model"
)

// descriptionPrompt is the system prompt used when an LLM capability is
// configured (spec §4.8 step 1: "description (via an external LLM
// capability ... disabled -> description is empty)").
const descriptionPrompt = "Summarize, in one or two sentences, what this source file is responsible for. Answer with the summary only, no preamble."

// buildNode produces the GraphNode for one file (spec §4.8 step 1):
// description (LLM, or empty when disabled), symbols (union of the file's
// stored block symbols), imports/exports (from the language adapter), and
// an embedding of the description via the text provider.
func (r *Reconciler) buildNode(ctx context.Context, path string, content []byte, language string) (model.GraphNode, error) {
	node := model.GraphNode{NodeID: ids.NodeID(path), Language: language}

	var adapter langreg.Adapter
	if language != "" && r.cfg.Langs != nil {
		adapter, _ = r.cfg.Langs.Get(language)
	}
	if adapter != nil && adapter.HasGrammar() {
		if tree, err := adapter.Parse(content); err == nil {
			node.Imports = adapter.ExtractImports(tree, content)
			node.Exports = adapter.ExtractExports(tree, content)
		}
	}

	symbols, err := r.symbolsFor(ctx, path)
	if err != nil {
		return model.GraphNode{}, err
	}
	node.Symbols = symbols

	description := ""
	if r.cfg.UseLLM && r.cfg.LLM != nil {
		text, err := r.cfg.LLM.Complete(ctx, descriptionPrompt, string(content), maxDescriptionTokens)
		if err != nil {
			r.cfg.logger().Warn("graphrag.describe.error", "path", path, "err", err)
		} else {
			description = text
		}
	}
	node.Description = description

	if r.cfg.TextProvider != nil {
		embedText := description
		if embedText == "" {
			// No LLM description: embed a minimal structural summary so the
			// node still participates in graph-node KNN retrieval.
			embedText = fmt.Sprintf("%s\n%s", path, joinSymbols(symbols))
		}
		vecs, err := r.cfg.TextProvider.Embed(ctx, []string{embedText}, embedding.InputDocument)
		if err != nil {
			return model.GraphNode{}, fmt.Errorf("graphrag: embed node description for %s: %w", path, err)
		}
		node.Embedding = vecs[0]
	}

	return node, nil
}

// symbolsFor unions the Symbols of every stored block belonging to path,
// across all three kinds.
func (r *Reconciler) symbolsFor(ctx context.Context, path string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, kind := range []model.BlockKind{model.KindCode, model.KindDoc, model.KindText} {
		blocks, err := r.cfg.Store.BlocksByPath(ctx, kind, path)
		if err != nil {
			return nil, err
		}
		for _, blk := range blocks {
			for _, s := range blk.Symbols {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}
	return out, nil
}

func joinSymbols(symbols []string) string {
	out := ""
	for i, s := range symbols {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
