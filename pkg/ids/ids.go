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

// Package ids computes the stable identifiers persisted across index runs:
// block ids (content-addressed) and file/node ids (path-addressed).
package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
)

// BlockID returns the 64-character hex SHA-256 digest of
// path \x00 kind \x00 start_line \x00 end_line \x00 content.
//
// start_line and end_line are rendered as ASCII decimal. This exact byte
// layout is a persisted format: changing it changes every id already on
// disk, so it must never depend on platform, locale, or struct field order.
func BlockID(path, kind string, startLine, endLine int, content string) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(startLine)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(endLine)))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizePath canonicalizes a path for use as a File or GraphNode id:
// forward slashes, no leading "./", no leading "/".
func NormalizePath(path string) string {
	if len(path) >= 2 && path[:2] == "./" {
		path = path[2:]
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}

// FileID is the File record's primary key: its normalized repo-relative path.
// Spec §3 defines the File record's identity as path itself; this wrapper
// exists so callers never normalize inconsistently.
func FileID(path string) string {
	return NormalizePath(path)
}

// NodeID is the GraphNode's primary key, identical in shape to FileID
// (spec §3: "node_id = path").
func NodeID(path string) string {
	return NormalizePath(path)
}
