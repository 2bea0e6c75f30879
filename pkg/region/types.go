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

// candidate is a pre-Block region: a line range tagged with the AST kind
// it came from and the identifiers it declares. start/end are 1-indexed
// and inclusive, matching model.Block.
type candidate struct {
	kindTag   string
	startLine int
	endLine   int
	symbols   []string
}

// Options configures extraction, merge, and split thresholds. Zero values
// are replaced by spec §6 defaults in ResolveOptions.
type Options struct {
	// TinyNeighborLines/TinyNeighborChars bound the merge-tiny-neighbors
	// pass (spec §4.3 step 2). Default 25 lines or 2000 characters.
	TinyNeighborLines int
	TinyNeighborChars int

	// ChunkSize is the max characters a region may hold before the
	// splitter breaks it up (index.chunk_size, default 2000).
	ChunkSize int
	// ChunkOverlap is the character overlap between adjacent split
	// pieces (index.chunk_overlap, default 100).
	ChunkOverlap int

	// MinChunk is markdown's minimum chunk size in characters before a
	// leaf section is merged into its parent header (default 200).
	MinChunk int
}

// ResolveOptions fills any zero field with its spec §6 default.
func ResolveOptions(o Options) Options {
	if o.TinyNeighborLines <= 0 {
		o.TinyNeighborLines = 25
	}
	if o.TinyNeighborChars <= 0 {
		o.TinyNeighborChars = 2000
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 2000
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = 100
	}
	if o.MinChunk <= 0 {
		o.MinChunk = 200
	}
	return o
}
