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

import (
	"strings"

	"github.com/bysensa/octocode/pkg/ids"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/model"
)

// Build carves content into Blocks for path (spec §4.3's five-step
// algorithm). adapter is the langreg Adapter for language, or nil if the
// extension was unrecognized (spec §4.2: "an unknown extension yields no
// language and the file is routed to the plain-text path").
func Build(path, language string, content []byte, adapter langreg.Adapter, opts Options) []model.Block {
	opts = ResolveOptions(opts)
	lines := strings.Split(string(content), "\n")

	switch language {
	case "markdown":
		cands := chunkMarkdown(lines, opts)
		if len(cands) == 0 {
			return []model.Block{wholeFileBlock(path, language, content)}
		}
		return toBlocks(path, language, model.KindDoc, cands, lines)
	case "json":
		cands := chunkJSON(content)
		if len(cands) == 0 {
			return []model.Block{wholeFileBlock(path, language, content)}
		}
		return toBlocks(path, language, model.KindCode, cands, lines)
	}

	if adapter == nil || !adapter.HasGrammar() {
		return []model.Block{wholeFileBlock(path, language, content)}
	}
	tree, err := adapter.Parse(content)
	if err != nil {
		return []model.Block{wholeFileBlock(path, language, content)}
	}
	cands := extractCandidates(tree, content, adapter)
	if len(cands) == 0 {
		return []model.Block{wholeFileBlock(path, language, content)}
	}
	cands = mergeTinyNeighbors(cands, lines, opts)

	var split []candidate
	for _, c := range cands {
		split = append(split, splitHugeRegion(c, lines, opts)...)
	}
	return toBlocks(path, language, model.KindCode, split, lines)
}

func toBlocks(path, language string, kind model.BlockKind, cands []candidate, lines []string) []model.Block {
	blocks := make([]model.Block, 0, len(cands))
	for _, c := range cands {
		text := strings.Join(lines[c.startLine-1:c.endLine], "\n")
		blocks = append(blocks, model.Block{
			ID:        ids.BlockID(path, string(kind), c.startLine, c.endLine, text),
			Kind:      kind,
			Path:      path,
			Language:  language,
			Symbols:   c.symbols,
			StartLine: c.startLine,
			EndLine:   c.endLine,
			Content:   text,
		})
	}
	return blocks
}

func wholeFileBlock(path, language string, content []byte) model.Block {
	lineCount := strings.Count(string(content), "\n") + 1
	text := string(content)
	return model.Block{
		ID:        ids.BlockID(path, string(model.KindText), 1, lineCount, text),
		Kind:      model.KindText,
		Path:      path,
		Language:  language,
		StartLine: 1,
		EndLine:   lineCount,
		Content:   text,
	}
}
