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
)

// FormatText renders a Response as the plain-text CLI output (spec §6,
// `search ... ` with no `--json`/`--md` flag).
func FormatText(resp *Response) string {
	if len(resp.Results) == 0 {
		return "No results.\n"
	}
	var b strings.Builder
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. [%s] %.3f\n%s\n", i+1, r.Block.Kind, r.Similarity, r.Rendered)
		for _, ex := range r.Expanded {
			fmt.Fprintf(&b, "   also: %s:%d-%d\n", ex.Path, ex.StartLine, ex.EndLine)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMarkdown renders a Response as Markdown (spec §6, `--md`).
func FormatMarkdown(resp *Response) string {
	if len(resp.Results) == 0 {
		return "_No results._\n"
	}
	var b strings.Builder
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "### %d. `%s` (%s, %.3f)\n\n", i+1, r.Block.Path, r.Block.Kind, r.Similarity)
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", r.Block.Language, r.Rendered)
		for _, ex := range r.Expanded {
			fmt.Fprintf(&b, "- also: `%s:%d-%d`\n", ex.Path, ex.StartLine, ex.EndLine)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// jsonResult and jsonResponse are the `--json` wire shapes (spec §6); kept
// distinct from Result/Response so storage internals (raw Embedding
// vectors) never leak into rendered output.
type jsonResult struct {
	Path       string   `json:"path"`
	Kind       string   `json:"kind"`
	Language   string   `json:"language"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Symbols    []string `json:"symbols,omitempty"`
	Similarity float64  `json:"similarity"`
	Content    string   `json:"content"`
	Expanded   []string `json:"expanded,omitempty"`
}

// JSONResponse is the `--json` wire shape.
type JSONResponse struct {
	Queries   []string     `json:"queries"`
	Mode      string       `json:"mode"`
	Truncated bool         `json:"truncated"`
	Results   []jsonResult `json:"results"`
}

// ToJSON converts a Response into its `--json` wire shape.
func ToJSON(resp *Response) JSONResponse {
	out := JSONResponse{Queries: resp.Queries, Mode: string(resp.Mode), Truncated: resp.Truncated}
	for _, r := range resp.Results {
		jr := jsonResult{
			Path: r.Block.Path, Kind: string(r.Block.Kind), Language: r.Block.Language,
			StartLine: r.Block.StartLine, EndLine: r.Block.EndLine, Symbols: r.Block.Symbols,
			Similarity: r.Similarity, Content: r.Rendered,
		}
		for _, ex := range r.Expanded {
			jr.Expanded = append(jr.Expanded, fmt.Sprintf("%s:%d-%d", ex.Path, ex.StartLine, ex.EndLine))
		}
		out.Results = append(out.Results, jr)
	}
	return out
}
