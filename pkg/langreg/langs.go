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
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// exportRule picks how a langSpec derives the exported-symbol subset of its
// meaningful-kind declarations. There is no single cross-language node type
// for "this is public" — Go uses capitalization, Rust a `pub` modifier,
// JS/TS an explicit wrapper statement, and most scripting languages a bare
// naming convention (no leading underscore).
type exportRule int

const (
	exportByConvention exportRule = iota // default: no leading "_"
	exportGoCapitalized
	exportRustPub
	exportJSWrapper
)

// langSpec is one row of the Tree-sitter-backed language table. A single
// generic adapter (treeSitterAdapter) is parameterized by a langSpec rather
// than each language getting its own type — languages differ in data, not
// in algorithm.
type langSpec struct {
	name            string
	grammar         func() *sitter.Language
	meaningfulKinds []string
	importKinds     []string
	exportWrapper   string // node type wrapping an exported declaration (exportJSWrapper)
	bodyField       string // field name holding the node's body, "" if none
	nameField       string // field name holding the declared identifier
	export          exportRule
}

var langSpecs = []langSpec{
	{
		name:            "go",
		grammar:         golang.GetLanguage,
		meaningfulKinds: []string{"function_declaration", "method_declaration", "type_declaration"},
		importKinds:     []string{"import_spec"},
		bodyField:       "body",
		nameField:       "name",
		export:          exportGoCapitalized,
	},
	{
		name:            "python",
		grammar:         python.GetLanguage,
		meaningfulKinds: []string{"function_definition", "class_definition"},
		importKinds:     []string{"import_statement", "import_from_statement"},
		bodyField:       "body",
		nameField:       "name",
		export:          exportByConvention,
	},
	{
		name:            "javascript",
		grammar:         javascript.GetLanguage,
		meaningfulKinds: []string{"function_declaration", "class_declaration", "method_definition"},
		importKinds:     []string{"import_statement"},
		exportWrapper:   "export_statement",
		bodyField:       "body",
		nameField:       "name",
		export:          exportJSWrapper,
	},
	{
		name:    "typescript",
		grammar: typescript.GetLanguage,
		meaningfulKinds: []string{
			"function_declaration", "class_declaration", "method_definition",
			"interface_declaration", "type_alias_declaration", "enum_declaration",
		},
		importKinds:   []string{"import_statement"},
		exportWrapper: "export_statement",
		bodyField:     "body",
		nameField:     "name",
		export:        exportJSWrapper,
	},
	{
		name:    "rust",
		grammar: rust.GetLanguage,
		meaningfulKinds: []string{
			"function_item", "struct_item", "enum_item", "trait_item", "impl_item", "mod_item",
		},
		importKinds: []string{"use_declaration"},
		bodyField:   "body",
		nameField:   "name",
		export:      exportRustPub,
	},
	{
		name:    "php",
		grammar: php.GetLanguage,
		meaningfulKinds: []string{
			"function_definition", "class_declaration", "method_declaration",
			"interface_declaration", "trait_declaration",
		},
		importKinds: []string{"namespace_use_declaration"},
		bodyField:   "body",
		nameField:   "name",
		export:      exportByConvention,
	},
	{
		name:    "cpp",
		grammar: cpp.GetLanguage,
		meaningfulKinds: []string{
			"function_definition", "class_specifier", "struct_specifier", "namespace_definition",
		},
		importKinds: []string{"preproc_include"},
		bodyField:   "body",
		nameField:   "name",
		export:      exportByConvention,
	},
	{
		name:            "ruby",
		grammar:         ruby.GetLanguage,
		meaningfulKinds: []string{"method", "class", "module"},
		bodyField:       "body",
		nameField:       "name",
		export:          exportByConvention,
	},
	{
		name:            "css",
		grammar:         css.GetLanguage,
		meaningfulKinds: []string{"rule_set"},
		importKinds:     []string{"import_statement"},
		nameField:       "name",
		export:          exportByConvention,
	},
	{
		name:            "bash",
		grammar:         bash.GetLanguage,
		meaningfulKinds: []string{"function_definition"},
		bodyField:       "body",
		nameField:       "name",
		export:          exportByConvention,
	},
}
