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

// Package region carves a parsed file into the coherent Blocks the rest of
// the system indexes and searches (C3): a pre-order walk over meaningful
// Tree-sitter nodes, a tiny-neighbor merge pass, an oversized-region
// splitter, and two structural special cases (markdown's header tree, and
// json's top-level-key scan) that bypass Tree-sitter entirely. Files that
// yield no regions at all — no grammar, or a grammar that found nothing —
// fall back to a single whole-file Block.
package region
