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

import "sort"

// mergeTinyNeighbors folds runs of adjacent single-line candidates (e.g. a
// block of import statements) into one region, up to opts'
// TinyNeighborLines/TinyNeighborChars budget (spec §4.3 step 2). Multi-line
// candidates (functions, classes, ...) pass through untouched.
func mergeTinyNeighbors(cands []candidate, lines []string, opts Options) []candidate {
	if len(cands) == 0 {
		return cands
	}
	sorted := make([]candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].startLine < sorted[j].startLine })

	var out []candidate
	i := 0
	for i < len(sorted) {
		c := sorted[i]
		if c.startLine != c.endLine {
			out = append(out, c)
			i++
			continue
		}
		group := c
		chars := regionChars(lines, c.startLine, c.endLine)
		j := i + 1
		for j < len(sorted) {
			next := sorted[j]
			if next.startLine != next.endLine {
				break
			}
			if next.startLine-group.endLine > 2 {
				break // not adjacent
			}
			nextChars := regionChars(lines, next.startLine, next.endLine)
			mergedLines := next.endLine - group.startLine + 1
			if mergedLines > opts.TinyNeighborLines || chars+nextChars > opts.TinyNeighborChars {
				break
			}
			group.endLine = next.endLine
			group.symbols = append(group.symbols, next.symbols...)
			chars += nextChars
			j++
		}
		out = append(out, group)
		i = j
	}
	return out
}

func regionChars(lines []string, startLine, endLine int) int {
	total := 0
	for l := startLine; l <= endLine && l-1 < len(lines); l++ {
		total += len(lines[l-1]) + 1
	}
	return total
}
