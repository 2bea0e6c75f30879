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

// Package langreg is the language registry (C2 of the system): one Adapter
// value per supported language, dispatched by extension through pkg/walker's
// DetectLanguage. There is no per-language type hierarchy — an Adapter is a
// capability set (grammar, meaningful kinds, import/export extraction,
// signature rendering, symbol naming), and most adapters share a single
// generic Tree-sitter-backed implementation parameterized by a langSpec
// table entry. Languages without a bundled Tree-sitter grammar (json,
// markdown, svelte) get a no-grammar Adapter whose MeaningfulKinds is empty,
// which routes pkg/region to its whole-file fallback.
package langreg
