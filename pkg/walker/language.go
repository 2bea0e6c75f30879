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

package walker

import (
	"path/filepath"
	"strings"
)

// languageExtensions maps a file extension to the language tag used by
// pkg/langreg. Only the languages spec §4.2 requires are listed; anything
// else falls back to the empty string, routing the file to the plain-text
// path (kind = text).
var languageExtensions = map[string]string{
	".rs":    "rust",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".go":    "go",
	".php":   "php",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".hh":    "cpp",
	".h":     "cpp",
	".c":     "cpp",
	".rb":    "ruby",
	".json":  "json",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "bash",
	".md":    "markdown",
	".markdown": "markdown",
	".css":   "css",
	".scss":  "css",
	".svelte": "svelte",
}

// DetectLanguage returns the language tag for path's extension, or "" if
// unrecognized (spec §4.2: "an unknown extension yields no language").
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return languageExtensions[ext]
}
