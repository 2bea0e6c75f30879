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
	"testing"

	"github.com/bysensa/octocode/pkg/model"
)

func TestResolveImportExactRelative(t *testing.T) {
	all := []model.GraphNode{{NodeID: "pkg/util/helpers.go"}, {NodeID: "pkg/main.go"}}
	got, ok := resolveImport("./util/helpers", "pkg/main.go", all)
	if !ok || got != "pkg/util/helpers.go" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveImportPackageRootAnchored(t *testing.T) {
	all := []model.GraphNode{{NodeID: "pkg/util/helpers.go"}}
	got, ok := resolveImport("pkg/util/helpers", "cmd/main.go", all)
	if !ok || got != "pkg/util/helpers.go" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveImportByFileStem(t *testing.T) {
	all := []model.GraphNode{{NodeID: "internal/widgets/helpers.py"}}
	got, ok := resolveImport("some.unresolvable.path.to.helpers", "x.py", all)
	if !ok || got != "internal/widgets/helpers.py" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolveImportUnresolvedDropped(t *testing.T) {
	all := []model.GraphNode{{NodeID: "pkg/util/helpers.go"}}
	_, ok := resolveImport("totally/unrelated/thing", "pkg/main.go", all)
	if ok {
		t.Fatal("expected an unresolved import to be dropped")
	}
}

func TestStructuralEdgesSiblingModule(t *testing.T) {
	node := model.GraphNode{NodeID: "pkg/search/engine.go"}
	all := []model.GraphNode{node, {NodeID: "pkg/search/options.go"}, {NodeID: "pkg/storage/blocks.go"}}
	edges := structuralEdges(node, all)

	found := false
	for _, e := range edges {
		if e.Kind == model.EdgeSiblingMod && e.TargetID == "pkg/search/options.go" {
			found = true
		}
		if e.TargetID == "pkg/storage/blocks.go" {
			t.Fatalf("unrelated directory should not produce an edge: %+v", e)
		}
	}
	if !found {
		t.Fatal("expected a sibling_module edge to pkg/search/options.go")
	}
}

func TestStructuralEdgesParentChildModule(t *testing.T) {
	node := model.GraphNode{NodeID: "pkg/search/options.go"}
	all := []model.GraphNode{node, {NodeID: "pkg/doc.go"}}
	edges := structuralEdges(node, all)

	var sawParent, sawChild bool
	for _, e := range edges {
		if e.Kind == model.EdgeParentMod && e.SourceID == "pkg/doc.go" && e.TargetID == node.NodeID {
			sawParent = true
		}
		if e.Kind == model.EdgeChildMod && e.SourceID == node.NodeID && e.TargetID == "pkg/doc.go" {
			sawChild = true
		}
	}
	if !sawParent || !sawChild {
		t.Fatalf("expected parent_module and child_module edges, got %+v", edges)
	}
}

func TestStructuralEdgesImports(t *testing.T) {
	node := model.GraphNode{NodeID: "pkg/main.go", Imports: []string{"./util/helpers"}}
	all := []model.GraphNode{node, {NodeID: "pkg/util/helpers.go"}}
	edges := structuralEdges(node, all)

	found := false
	for _, e := range edges {
		if e.Kind == model.EdgeImports && e.TargetID == "pkg/util/helpers.go" {
			found = true
			if e.Weight != 1.0 || e.Confidence != 1.0 {
				t.Fatalf("structural import edge should be weight=1.0 confidence=1.0, got %+v", e)
			}
		}
	}
	if !found {
		t.Fatal("expected an imports edge to pkg/util/helpers.go")
	}
}

func TestParseInferLine(t *testing.T) {
	idx, confidence, ok := parseInferLine("3: 0.9")
	if !ok || idx != 3 || confidence != 0.9 {
		t.Fatalf("got %d, %v, %v", idx, confidence, ok)
	}
	if _, _, ok := parseInferLine("not a line"); ok {
		t.Fatal("expected malformed line to be rejected")
	}
	if _, _, ok := parseInferLine(""); ok {
		t.Fatal("expected empty line to be rejected")
	}
}

func TestStemOf(t *testing.T) {
	if stemOf("helpers.go") != "helpers" {
		t.Fatalf("got %q", stemOf("helpers.go"))
	}
	if stemOf("README") != "README" {
		t.Fatalf("got %q", stemOf("README"))
	}
}
