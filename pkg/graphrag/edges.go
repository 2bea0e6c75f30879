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
	"path"
	"sort"
	"strings"

	"github.com/bysensa/octocode/pkg/model"
)

// sourceExtensions are tried, in order, when an import string omits a file
// extension (the common case in every language spec §4.2 supports).
var sourceExtensions = []string{"", ".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".rb", ".rs", ".php", ".cpp", ".cc", ".h", ".hpp"}

// structuralEdges derives every structural edge (spec §4.8 step 2) incident
// to node, given the full set of existing nodes (including node itself).
func structuralEdges(node model.GraphNode, all []model.GraphNode) []model.GraphEdge {
	var edges []model.GraphEdge

	for _, imp := range node.Imports {
		if target, ok := resolveImport(imp, node.NodeID, all); ok && target != node.NodeID {
			edges = append(edges, model.GraphEdge{
				SourceID: node.NodeID, TargetID: target, Kind: model.EdgeImports,
				Weight: 1.0, Confidence: 1.0,
			})
		}
	}

	dir := path.Dir(node.NodeID)
	parentDir := path.Dir(dir)
	for _, other := range all {
		if other.NodeID == node.NodeID {
			continue
		}
		otherDir := path.Dir(other.NodeID)
		switch {
		case otherDir == dir:
			edges = append(edges, model.GraphEdge{
				SourceID: node.NodeID, TargetID: other.NodeID, Kind: model.EdgeSiblingMod,
				Weight: 1.0, Confidence: 1.0,
			})
		case otherDir == parentDir && parentDir != dir:
			edges = append(edges, model.GraphEdge{
				SourceID: other.NodeID, TargetID: node.NodeID, Kind: model.EdgeParentMod,
				Weight: 1.0, Confidence: 1.0,
			})
			edges = append(edges, model.GraphEdge{
				SourceID: node.NodeID, TargetID: other.NodeID, Kind: model.EdgeChildMod,
				Weight: 1.0, Confidence: 1.0,
			})
		case path.Dir(otherDir) == dir && otherDir != dir:
			edges = append(edges, model.GraphEdge{
				SourceID: node.NodeID, TargetID: other.NodeID, Kind: model.EdgeParentMod,
				Weight: 1.0, Confidence: 1.0,
			})
			edges = append(edges, model.GraphEdge{
				SourceID: other.NodeID, TargetID: node.NodeID, Kind: model.EdgeChildMod,
				Weight: 1.0, Confidence: 1.0,
			})
		}
	}
	return edges
}

// resolveImport applies spec §4.8's path-matching order: exact relative to
// the importing file's directory, then package-root anchored, then by
// file-stem. The first rule that matches an existing node wins; an
// unresolved import is reported via ok=false and silently dropped by the
// caller, never errored.
func resolveImport(importStr, fromNodeID string, all []model.GraphNode) (string, bool) {
	importStr = strings.Trim(importStr, `"'`)
	if importStr == "" {
		return "", false
	}
	exists := make(map[string]bool, len(all))
	for _, n := range all {
		exists[n.NodeID] = true
	}

	// Exact relative: join against the importing file's own directory.
	if strings.HasPrefix(importStr, ".") {
		base := path.Dir(fromNodeID)
		joined := path.Clean(path.Join(base, importStr))
		if id, ok := withExtensions(joined, exists); ok {
			return id, true
		}
	}

	// Package-root anchored: the import string as given, from repo root.
	anchored := path.Clean(importStr)
	if id, ok := withExtensions(anchored, exists); ok {
		return id, true
	}

	// By file-stem: match the import's last path component against every
	// node's file stem (base name without extension); when that matches
	// nothing, a dotted module path (a.b.helpers) is tried by its last
	// dot-separated segment. Ambiguous matches pick the lexicographically
	// first candidate deterministically.
	base := path.Base(importStr)
	stems := []string{stemOf(base)}
	if i := strings.LastIndex(base, "."); i >= 0 && i < len(base)-1 {
		stems = append(stems, base[i+1:])
	}
	var candidates []string
	for _, stem := range stems {
		for _, n := range all {
			if stemOf(path.Base(n.NodeID)) == stem {
				candidates = append(candidates, n.NodeID)
			}
		}
		if len(candidates) > 0 {
			break
		}
	}
	if len(candidates) > 0 {
		sort.Strings(candidates)
		return candidates[0], true
	}

	return "", false
}

func withExtensions(base string, exists map[string]bool) (string, bool) {
	for _, ext := range sourceExtensions {
		candidate := base + ext
		if exists[candidate] {
			return candidate, true
		}
	}
	return "", false
}

func stemOf(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
