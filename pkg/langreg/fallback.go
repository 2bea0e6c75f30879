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
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// noGrammarAdapter backs languages with no bundled Tree-sitter grammar in
// the pack's corpus (json, markdown, svelte) — the same situation the
// ingestion parser documents for protobuf ("no tree-sitter grammar
// bundled"), handled here by degrading to the whole-file path rather than
// guessing at an unverified grammar subpackage. Markdown additionally gets
// its own header-tree chunker in pkg/region, so its empty MeaningfulKinds
// here is never actually consulted.
type noGrammarAdapter struct {
	lang string
}

func (a noGrammarAdapter) Language() string { return a.lang }
func (a noGrammarAdapter) HasGrammar() bool  { return false }

func (a noGrammarAdapter) Parse([]byte) (*sitter.Tree, error) {
	return nil, fmt.Errorf("langreg: %s has no Tree-sitter grammar", a.lang)
}

func (a noGrammarAdapter) MeaningfulKinds() map[string]bool { return nil }

func (a noGrammarAdapter) ExtractImports(*sitter.Tree, []byte) []string { return nil }

func (a noGrammarAdapter) ExtractExports(*sitter.Tree, []byte) []string { return nil }

func (a noGrammarAdapter) Signature(node *sitter.Node, source []byte) string {
	return ""
}

func (a noGrammarAdapter) SymbolName(*sitter.Node, []byte) (string, bool) { return "", false }
