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
	sitter "github.com/smacker/go-tree-sitter"
)

// Adapter is the capability set a language contributes to ingestion.
// Implementations are values, not a type hierarchy: the generic adapter
// covers every Tree-sitter-backed language, and languages without a grammar
// get the noGrammarAdapter instead.
type Adapter interface {
	// Language is the tag used throughout the system (pkg/walker's
	// DetectLanguage output, model.Block.Language).
	Language() string

	// HasGrammar reports whether Parse can produce a real AST. When false,
	// MeaningfulKinds is always empty and callers should whole-file the
	// content instead of walking a tree.
	HasGrammar() bool

	// Parse parses source into a Tree-sitter tree. Returns an error if
	// HasGrammar is false.
	Parse(source []byte) (*sitter.Tree, error)

	// MeaningfulKinds is the set of node type names the region extractor
	// treats as candidate regions (functions, methods, types, classes, ...).
	MeaningfulKinds() map[string]bool

	// ExtractImports returns the raw import/use statements found in tree,
	// in source order, as they appear in the source (not normalized).
	ExtractImports(tree *sitter.Tree, source []byte) []string

	// ExtractExports returns the names of symbols the file makes visible
	// to other files, by the language's own export convention.
	ExtractExports(tree *sitter.Tree, source []byte) []string

	// Signature renders a node's header, leaving out the body — at most 5
	// lines; a longer header keeps its first 4 lines followed by a literal
	// "..." line.
	Signature(node *sitter.Node, source []byte) string

	// SymbolName returns the identifier a meaningful-kind node declares,
	// if the node has one.
	SymbolName(node *sitter.Node, source []byte) (string, bool)
}

// Registry dispatches a language tag to its Adapter.
type Registry struct {
	adapters map[string]Adapter
}

// New builds a Registry populated with every language listed in spec §4.2:
// rust, python, javascript, typescript, go, php, c++, ruby, json, bash,
// markdown, css/scss, svelte.
func New() *Registry {
	r := &Registry{adapters: map[string]Adapter{}}
	for _, spec := range langSpecs {
		r.adapters[spec.name] = newTreeSitterAdapter(spec)
	}
	for _, name := range []string{"json", "markdown", "svelte"} {
		r.adapters[name] = noGrammarAdapter{lang: name}
	}
	return r
}

// Get returns the Adapter registered for lang, if any.
func (r *Registry) Get(lang string) (Adapter, bool) {
	a, ok := r.adapters[lang]
	return a, ok
}
