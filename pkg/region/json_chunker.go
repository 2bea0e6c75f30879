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

// chunkJSON implements spec §4.2's "for JSON, kinds are top-level object
// keys": a byte scan (not a Tree-sitter grammar — json has none confirmed
// in the pack) that tracks brace/bracket depth and string state, and
// records a candidate starting at each key directly under the root object.
// A root that isn't an object (an array, or a bare scalar document) yields
// no candidates, so the caller's whole-file fallback takes over.
func chunkJSON(content []byte) []candidate {
	firstNonSpace := -1
	for i, b := range content {
		if !isJSONSpace(b) {
			firstNonSpace = i
			break
		}
	}
	if firstNonSpace < 0 || content[firstNonSpace] != '{' {
		return nil
	}

	type key struct {
		name        string
		startOffset int
	}
	var keys []key

	depth := 0
	inString := false
	escape := false
	strStart := -1

	for i := 0; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
				if depth == 1 {
					j := i + 1
					for j < len(content) && isJSONSpace(content[j]) {
						j++
					}
					if j < len(content) && content[j] == ':' {
						keys = append(keys, key{name: string(content[strStart+1 : i]), startOffset: strStart})
					}
				}
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			strStart = i
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	if len(keys) == 0 {
		return nil
	}

	lineOf := offsetToLineFunc(content)
	var out []candidate
	for i, k := range keys {
		startLine := lineOf(k.startOffset)
		var endLine int
		if i+1 < len(keys) {
			endLine = lineOf(keys[i+1].startOffset) - 1
		} else {
			endLine = lineOf(len(content) - 1)
		}
		if endLine < startLine {
			endLine = startLine
		}
		out = append(out, candidate{kindTag: "json_key", startLine: startLine, endLine: endLine, symbols: []string{k.name}})
	}
	return out
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// offsetToLineFunc precomputes newline positions so repeated offset->line
// lookups are O(log n) instead of rescanning the file each time.
func offsetToLineFunc(content []byte) func(offset int) int {
	var newlineOffsets []int
	for i, b := range content {
		if b == '\n' {
			newlineOffsets = append(newlineOffsets, i)
		}
	}
	return func(offset int) int {
		// line = 1 + number of newlines strictly before offset
		lo, hi := 0, len(newlineOffsets)
		for lo < hi {
			mid := (lo + hi) / 2
			if newlineOffsets[mid] < offset {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo + 1
	}
}
