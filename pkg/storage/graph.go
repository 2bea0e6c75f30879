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

	"github.com/bysensa/octocode/pkg/model"
)

// UpsertNode writes or replaces a GraphNode.
func (b *EmbeddedBackend) UpsertNode(ctx context.Context, n model.GraphNode) error {
	script := `
?[node_id, description, symbols, imports, exports, language, embedding] <- [[$id, $desc, $symbols, $imports, $exports, $lang, $embedding]]
:put graph_nodes { node_id, description, symbols, imports, exports, language, embedding }
`
	return b.Execute(ctx, script, map[string]any{
		"id": n.NodeID, "desc": n.Description, "symbols": encodeStrings(n.Symbols),
		"imports": encodeStrings(n.Imports), "exports": encodeStrings(n.Exports),
		"lang": n.Language, "embedding": encodeEmbedding(n.Embedding),
	})
}

// GetNode returns the node for nodeID, or ok=false if absent.
func (b *EmbeddedBackend) GetNode(ctx context.Context, nodeID string) (n model.GraphNode, ok bool, err error) {
	script := `?[node_id, description, symbols, imports, exports, language, embedding] := *graph_nodes{node_id, description, symbols, imports, exports, language, embedding}, node_id == $id`
	res, err := b.Query(ctx, script, map[string]any{"id": nodeID})
	if err != nil {
		return model.GraphNode{}, false, err
	}
	if len(res.Rows) == 0 {
		return model.GraphNode{}, false, nil
	}
	row := res.Rows[0]
	return rowToNode(row), true, nil
}

// ListNodes returns every GraphNode.
func (b *EmbeddedBackend) ListNodes(ctx context.Context) ([]model.GraphNode, error) {
	script := `?[node_id, description, symbols, imports, exports, language, embedding] := *graph_nodes{node_id, description, symbols, imports, exports, language, embedding}`
	res, err := b.Query(ctx, script, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.GraphNode, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, rowToNode(row))
	}
	return out, nil
}

func rowToNode(row []any) model.GraphNode {
	return model.GraphNode{
		NodeID: asString(row[0]), Description: asString(row[1]),
		Symbols: decodeStrings(asString(row[2])), Imports: decodeStrings(asString(row[3])),
		Exports: decodeStrings(asString(row[4])), Language: asString(row[5]),
		Embedding: decodeEmbedding(row[6]),
	}
}

// DeleteNode removes the node for path, then every edge incident to it.
func (b *EmbeddedBackend) DeleteNode(ctx context.Context, path string) error {
	script := `?[node_id] <- [[$id]] :rm graph_nodes { node_id }`
	if err := b.Execute(ctx, script, map[string]any{"id": path}); err != nil {
		return err
	}
	return b.deleteEdgesIncident(ctx, path)
}

func (b *EmbeddedBackend) deleteEdgesIncident(ctx context.Context, nodeID string) error {
	script := `
?[source_id, target_id, kind] := *graph_edges{source_id, target_id, kind}, source_id == $id
?[source_id, target_id, kind] := *graph_edges{source_id, target_id, kind}, target_id == $id
:rm graph_edges { source_id, target_id, kind }
`
	return b.Execute(ctx, script, map[string]any{"id": nodeID})
}

// UpsertEdge writes or replaces an edge. SourceID == TargetID is rejected
// (spec §3: "no self-loops").
func (b *EmbeddedBackend) UpsertEdge(ctx context.Context, e model.GraphEdge) error {
	if e.SourceID == e.TargetID {
		return fmt.Errorf("storage: self-loop edge rejected for %s", e.SourceID)
	}
	script := `
?[source_id, target_id, kind, weight, confidence] <- [[$src, $dst, $kind, $weight, $confidence]]
:put graph_edges { source_id, target_id, kind, weight, confidence }
`
	return b.Execute(ctx, script, map[string]any{
		"src": e.SourceID, "dst": e.TargetID, "kind": string(e.Kind),
		"weight": e.Weight, "confidence": e.Confidence,
	})
}

// ListEdgesFrom returns every outgoing edge of nodeID.
func (b *EmbeddedBackend) ListEdgesFrom(ctx context.Context, nodeID string) ([]model.GraphEdge, error) {
	script := `?[source_id, target_id, kind, weight, confidence] := *graph_edges{source_id, target_id, kind, weight, confidence}, source_id == $id`
	return b.queryEdges(ctx, script, nodeID)
}

// ListEdgesAll returns every edge in the graph, used for path-finding's
// undirected projection (spec §4.8).
func (b *EmbeddedBackend) ListEdgesAll(ctx context.Context) ([]model.GraphEdge, error) {
	script := `?[source_id, target_id, kind, weight, confidence] := *graph_edges{source_id, target_id, kind, weight, confidence}`
	return b.queryEdges(ctx, script, "")
}

func (b *EmbeddedBackend) queryEdges(ctx context.Context, script, id string) ([]model.GraphEdge, error) {
	var params map[string]any
	if id != "" {
		params = map[string]any{"id": id}
	}
	res, err := b.Query(ctx, script, params)
	if err != nil {
		return nil, err
	}
	out := make([]model.GraphEdge, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, model.GraphEdge{
			SourceID: asString(row[0]), TargetID: asString(row[1]), Kind: model.EdgeKind(asString(row[2])),
			Weight: asFloat(row[3]), Confidence: asFloat(row[4]),
		})
	}
	return out, nil
}

// KNNNodes returns the k nearest graph nodes to query by cosine similarity.
func (b *EmbeddedBackend) KNNNodes(ctx context.Context, query []float32, k int) ([]model.GraphNode, []float64, error) {
	nodes, err := b.ListNodes(ctx)
	if err != nil {
		return nil, nil, err
	}
	sims := make([]float64, len(nodes))
	for i, n := range nodes {
		sims[i] = cosineSimilarity(query, n.Embedding)
	}
	idxs := topK(sims, k)
	outNodes := make([]model.GraphNode, len(idxs))
	outSims := make([]float64, len(idxs))
	for i, idx := range idxs {
		outNodes[i] = nodes[idx]
		outSims[i] = sims[idx]
	}
	return outNodes, outSims, nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
