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

package region

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bysensa/octocode/pkg/langreg"
)

// extractCandidates walks tree pre-order and emits one candidate per node
// whose kind is in adapter's MeaningfulKinds (spec §4.3 step 1). Nested
// meaningful nodes (e.g. a method inside a class) each get their own
// candidate — the walk always descends into children, it never stops at
// the first match — so both the enclosing and the nested declaration stay
// independently searchable.
func extractCandidates(tree *sitter.Tree, source []byte, adapter langreg.Adapter) []candidate {
	kinds := adapter.MeaningfulKinds()
	if len(kinds) == 0 {
		return nil
	}
	var out []candidate
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kinds[n.Type()] {
			c := candidate{
				kindTag:   n.Type(),
				startLine: int(n.StartPoint().Row) + 1,
				endLine:   int(n.EndPoint().Row) + 1,
			}
			if name, ok := adapter.SymbolName(n, source); ok {
				c.symbols = []string{name}
			}
			out = append(out, c)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out
}
