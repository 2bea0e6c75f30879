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
	"strconv"
	"strings"

	"github.com/bysensa/octocode/pkg/model"
)

// maxInferCandidates bounds how many semantically-nearby nodes are offered
// to the LLM as candidates for an inferred relation, per node.
const maxInferCandidates = 10

const inferPrompt = `Below is a source file's description, followed by a numbered list of
candidate files from the same repository. Identify which candidates this
file actually depends on at runtime in a way static imports would miss
(for example: dynamic loading, reflection, config-driven plugin paths).
Answer with one line per such candidate, formatted exactly as
"<number>: <confidence 0.0-1.0>". Skip candidates you are not confident
about. If none apply, answer with nothing.`

// inferredEdges asks the LLM capability whether node depends on any of its
// nearest-by-embedding neighbors in a way the static import resolution in
// structuralEdges would miss (spec §4.8 step 4: "LLM-derived edges ...
// carry the model's confidence"). Inferred relations are reported as
// additional EdgeImports edges, since that is the relation they represent;
// confidence_threshold filtering in Reconcile still applies.
func (r *Reconciler) inferredEdges(ctx context.Context, node model.GraphNode, all []model.GraphNode) ([]model.GraphEdge, error) {
	if node.Embedding == nil {
		return nil, nil
	}
	neighbors, _, err := r.cfg.Store.KNNNodes(ctx, node.Embedding, maxInferCandidates+1)
	if err != nil {
		return nil, err
	}

	var candidates []model.GraphNode
	for _, n := range neighbors {
		if n.NodeID == node.NodeID {
			continue
		}
		candidates = append(candidates, n)
		if len(candidates) == maxInferCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var listing strings.Builder
	for i, c := range candidates {
		desc := c.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&listing, "%d. %s: %s\n", i+1, c.NodeID, desc)
	}

	user := fmt.Sprintf("File: %s\nDescription: %s\n\nCandidates:\n%s", node.NodeID, node.Description, listing.String())
	text, err := r.cfg.LLM.Complete(ctx, inferPrompt, user, maxDescriptionTokens)
	if err != nil {
		return nil, err
	}

	var edges []model.GraphEdge
	for _, line := range strings.Split(text, "\n") {
		idx, confidence, ok := parseInferLine(line)
		if !ok || idx < 1 || idx > len(candidates) {
			continue
		}
		edges = append(edges, model.GraphEdge{
			SourceID: node.NodeID, TargetID: candidates[idx-1].NodeID,
			Kind: model.EdgeImports, Weight: 1.0, Confidence: confidence,
		})
	}
	return edges, nil
}

func parseInferLine(line string) (idx int, confidence float64, ok bool) {
	line = strings.TrimSpace(line)
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	confidence, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return idx, confidence, true
}
