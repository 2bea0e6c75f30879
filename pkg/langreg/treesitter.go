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

package langreg

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxSignatureLines caps Signature's rendered header, per spec §4.2:
// "at most 5 lines, ellipsized with a literal '...'".
const maxSignatureLines = 5

// treeSitterAdapter implements Adapter generically over a langSpec. Parsers
// are not goroutine-safe, so each adapter keeps a sync.Pool of them —
// mirrors the per-language parser pool pattern used for ingestion's own
// Tree-sitter parser.
type treeSitterAdapter struct {
	spec langSpec
	pool sync.Pool
}

func newTreeSitterAdapter(spec langSpec) *treeSitterAdapter {
	a := &treeSitterAdapter{spec: spec}
	a.pool.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(spec.grammar())
		return p
	}
	return a
}

func (a *treeSitterAdapter) Language() string { return a.spec.name }
func (a *treeSitterAdapter) HasGrammar() bool  { return true }

func (a *treeSitterAdapter) Parse(source []byte) (*sitter.Tree, error) {
	p := a.pool.Get().(*sitter.Parser)
	defer a.pool.Put(p)
	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("langreg: parse %s: %w", a.spec.name, err)
	}
	return tree, nil
}

func (a *treeSitterAdapter) MeaningfulKinds() map[string]bool {
	kinds := make(map[string]bool, len(a.spec.meaningfulKinds))
	for _, k := range a.spec.meaningfulKinds {
		kinds[k] = true
	}
	return kinds
}

func (a *treeSitterAdapter) ExtractImports(tree *sitter.Tree, source []byte) []string {
	if len(a.spec.importKinds) == 0 {
		return nil
	}
	want := make(map[string]bool, len(a.spec.importKinds))
	for _, k := range a.spec.importKinds {
		want[k] = true
	}
	var out []string
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		if want[n.Type()] {
			out = append(out, strings.TrimSpace(string(source[n.StartByte():n.EndByte()])))
			return false // import statements don't nest
		}
		return true
	})
	return out
}

func (a *treeSitterAdapter) ExtractExports(tree *sitter.Tree, source []byte) []string {
	var out []string
	kinds := a.MeaningfulKinds()
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		target := n
		switch a.spec.export {
		case exportJSWrapper:
			if n.Type() != a.spec.exportWrapper {
				return true
			}
			// The declaration being exported is the wrapper's sole
			// meaningful child (or, for `export default`, its value).
			found := false
			for i := 0; i < int(n.ChildCount()); i++ {
				c := n.Child(i)
				if kinds[c.Type()] {
					target = c
					found = true
					break
				}
			}
			if !found {
				return true
			}
		default:
			if !kinds[n.Type()] {
				return true
			}
		}
		name, ok := a.symbolNameOf(target, source)
		if !ok {
			return true
		}
		switch a.spec.export {
		case exportGoCapitalized:
			if !isExportedIdentifier(name) {
				return true
			}
		case exportRustPub:
			if !hasPubModifier(target) {
				return true
			}
		case exportByConvention:
			if strings.HasPrefix(name, "_") {
				return true
			}
		}
		out = append(out, name)
		return true
	})
	return out
}

func (a *treeSitterAdapter) Signature(node *sitter.Node, source []byte) string {
	end := node.EndByte()
	if a.spec.bodyField != "" {
		if body := node.ChildByFieldName(a.spec.bodyField); body != nil {
			end = body.StartByte()
		}
	}
	header := strings.TrimRight(string(source[node.StartByte():end]), " \t\r\n{")
	lines := strings.Split(header, "\n")
	if len(lines) <= maxSignatureLines {
		return header
	}
	return strings.Join(lines[:maxSignatureLines-1], "\n") + "\n..."
}

func (a *treeSitterAdapter) SymbolName(node *sitter.Node, source []byte) (string, bool) {
	return a.symbolNameOf(node, source)
}

func (a *treeSitterAdapter) symbolNameOf(node *sitter.Node, source []byte) (string, bool) {
	if a.spec.nameField == "" {
		return "", false
	}
	n := node.ChildByFieldName(a.spec.nameField)
	if n == nil {
		return "", false
	}
	return string(source[n.StartByte():n.EndByte()]), true
}

// walk performs a pre-order traversal, calling visit on every node. If
// visit returns false, the node's children are not descended into.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func isExportedIdentifier(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// hasPubModifier reports whether node's first child is a Rust `pub` (or
// `pub(crate)`, `pub(super)`, ...) visibility modifier.
func hasPubModifier(node *sitter.Node) bool {
	if node.ChildCount() == 0 {
		return false
	}
	return node.Child(0).Type() == "visibility_modifier"
}
