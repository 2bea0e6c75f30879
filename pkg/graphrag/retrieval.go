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

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/model"
	"github.com/bysensa/octocode/pkg/storage"
)

// defaultMaxDepth is how many edge hops RetrieveByQuery follows out from
// its KNN seed nodes when maxDepth <= 0 (spec §4.8: "GraphRAG retrieval").
const defaultMaxDepth = 3

// ScoredNode pairs a GraphNode with its similarity to a query, as returned
// by RetrieveByQuery's KNN seed stage.
type ScoredNode struct {
	Node       model.GraphNode
	Similarity float64
}

// Retriever exposes GraphRAG retrieval (spec §4.8's final paragraph): KNN
// over node embeddings, optional edge-following, and shortest-path
// queries. It is the API C7 (or a direct caller) uses against the graph
// Reconcile built.
type Retriever struct {
	store        *storage.EmbeddedBackend
	textProvider embedding.Provider
}

// NewRetriever builds a Retriever. textProvider embeds the free-text query
// in RetrieveByQuery; it may be nil if callers only ever use FindPath.
func NewRetriever(store *storage.EmbeddedBackend, textProvider embedding.Provider) *Retriever {
	return &Retriever{store: store, textProvider: textProvider}
}

// RetrieveByQuery embeds query with the text provider, seeds with the k
// nearest graph nodes by cosine similarity, then optionally expands along
// edges up to maxDepth hops (<= 0 means defaultMaxDepth). Expanded nodes
// carry the similarity of the seed they were reached from, since they were
// never themselves scored against query.
func (r *Retriever) RetrieveByQuery(ctx context.Context, query string, k, maxDepth int) ([]ScoredNode, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	vecs, err := r.textProvider.Embed(ctx, []string{query}, embedding.InputQuery)
	if err != nil {
		return nil, err
	}

	nodes, sims, err := r.store.KNNNodes(ctx, vecs[0], k)
	if err != nil {
		return nil, err
	}

	out := make([]ScoredNode, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		out = append(out, ScoredNode{Node: n, Similarity: sims[i]})
		seen[n.NodeID] = true
	}

	frontier := make([]ScoredNode, len(out))
	copy(frontier, out)
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []ScoredNode
		for _, sn := range frontier {
			edges, err := r.store.ListEdgesFrom(ctx, sn.Node.NodeID)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				if seen[e.TargetID] {
					continue
				}
				seen[e.TargetID] = true
				target, ok, err := r.store.GetNode(ctx, e.TargetID)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				scored := ScoredNode{Node: target, Similarity: sn.Similarity}
				out = append(out, scored)
				next = append(next, scored)
			}
		}
		frontier = next
	}

	return out, nil
}

// FindPath returns the shortest path from sourceID to targetID, by BFS
// over the undirected projection of the edge set (spec §4.8), bounded to
// maxDepth hops (<= 0 means defaultMaxDepth). ok is false if no path
// within maxDepth exists.
func (r *Retriever) FindPath(ctx context.Context, sourceID, targetID string, maxDepth int) (path []string, ok bool, err error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	if sourceID == targetID {
		return []string{sourceID}, true, nil
	}

	edges, err := r.store.ListEdgesAll(ctx)
	if err != nil {
		return nil, false, err
	}
	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.SourceID] = append(adjacency[e.SourceID], e.TargetID)
		adjacency[e.TargetID] = append(adjacency[e.TargetID], e.SourceID)
	}

	type queued struct {
		id   string
		path []string
	}
	visited := map[string]bool{sourceID: true}
	queue := []queued{{id: sourceID, path: []string{sourceID}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path)-1 >= maxDepth {
			continue
		}
		for _, next := range adjacency[cur.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			nextPath := append(append([]string{}, cur.path...), next)
			if next == targetID {
				return nextPath, true, nil
			}
			queue = append(queue, queued{id: next, path: nextPath})
		}
	}

	return nil, false, nil
}
