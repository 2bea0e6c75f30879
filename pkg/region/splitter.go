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

import "strings"

// splitHugeRegion breaks a region exceeding opts.ChunkSize characters into
// several, preferring to cut on a blank line within the region (spec §4.3
// step 3: "along inner semantic boundaries where available, else along
// blank lines"). Candidate regions only carry a line range at this stage,
// not a node reference, so "inner semantic boundaries" reduces to the
// blank-line rule here; a nested meaningful-kind node inside this region
// already produced its own candidate during extraction, so splitting never
// has to rediscover it.
//
// Adjacent pieces overlap by up to opts.ChunkOverlap characters, and their
// union is exactly the original line range — no gaps.
func splitHugeRegion(c candidate, lines []string, opts Options) []candidate {
	if regionChars(lines, c.startLine, c.endLine) <= opts.ChunkSize {
		return []candidate{c}
	}
	blanks := blankLines(lines, c.startLine, c.endLine)

	var out []candidate
	cur := c.startLine
	for cur <= c.endLine {
		end := cur
		chars := 0
		lastBlank := 0
		for end <= c.endLine {
			lineLen := len(lines[end-1]) + 1
			if chars+lineLen > opts.ChunkSize && end > cur {
				break
			}
			chars += lineLen
			if blanks[end] {
				lastBlank = end
			}
			end++
		}
		end-- // step back onto the last line actually included
		if end < cur {
			end = cur
		}
		if lastBlank > cur && lastBlank < end {
			end = lastBlank
		}

		out = append(out, candidate{kindTag: c.kindTag, startLine: cur, endLine: end, symbols: c.symbols})
		if end >= c.endLine {
			break
		}

		// Next piece starts chunk_overlap characters back from end, but
		// always makes forward progress so the loop terminates.
		next := end
		back := 0
		for next > cur && back < opts.ChunkOverlap {
			back += len(lines[next-1]) + 1
			next--
		}
		if next <= cur {
			next = end
		}
		cur = next + 1
	}
	return out
}

func blankLines(lines []string, startLine, endLine int) map[int]bool {
	b := make(map[int]bool)
	for l := startLine; l <= endLine && l-1 < len(lines); l++ {
		if strings.TrimSpace(lines[l-1]) == "" {
			b[l] = true
		}
	}
	return b
}
