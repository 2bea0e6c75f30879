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

package search

import (
	"fmt"
	"strings"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/model"
)

// maxSignatureLines mirrors langreg.Adapter.Signature's cap (spec §4.2,
// §4.7): a block's stored Content is already the region's source text, so
// the signature view re-derives the header the same way treeSitterAdapter
// does from a live node — up to the first "{" — rather than re-parsing.
const maxSignatureLines = 5

// render produces the detail-level view of a block (spec §4.7 step 8). All
// three levels are prefixed with "path:start_line-end_line".
func (e *Engine) render(blk model.Block, detail DetailLevel) string {
	loc := fmt.Sprintf("%s:%d-%d", blk.Path, blk.StartLine, blk.EndLine)
	switch detail {
	case DetailSignatures:
		return loc + "\n" + signatureOf(blk.Content)
	case DetailFull:
		return loc + "\n" + blk.Content
	default: // partial
		return loc + "\n" + partialOf(blk.Content)
	}
}

// signatureOf renders a function/type header: everything before the first
// "{", truncated to maxSignatureLines lines, the last being a literal "...".
func signatureOf(content string) string {
	header := content
	if i := strings.IndexByte(content, '{'); i >= 0 {
		header = content[:i]
	}
	header = strings.TrimRight(header, " \t\r\n")
	lines := strings.Split(header, "\n")
	if len(lines) <= maxSignatureLines {
		return header
	}
	return strings.Join(lines[:maxSignatureLines-1], "\n") + "\n..."
}

// partialOf renders the first 2 and last 2 content lines, eliding the
// middle when there are more than 5 lines (spec §4.7 step 8).
func partialOf(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= 5 {
		return content
	}
	var b strings.Builder
	b.WriteString(strings.Join(lines[:2], "\n"))
	b.WriteString("\n...\n")
	b.WriteString(strings.Join(lines[len(lines)-2:], "\n"))
	return b.String()
}

// truncateToBudget drops lowest-ranked results from resp until the
// estimated token count of every Rendered field fits within maxTokens,
// preserving the highest-ranked items whole (spec §4.7: "preserving the
// highest-ranked items whole"). Reports whether anything was dropped.
func truncateToBudget(resp *Response, maxTokens int) bool {
	estimator := embedding.NewTokenEstimator(nil)
	total := 0
	kept := 0
	for _, r := range resp.Results {
		n := estimator.Estimate(r.Rendered)
		if kept > 0 && total+n > maxTokens {
			break
		}
		total += n
		kept++
	}
	if kept >= len(resp.Results) {
		return false
	}
	resp.Results = resp.Results[:kept]
	return true
}
