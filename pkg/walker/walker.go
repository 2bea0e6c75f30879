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

// Package walker enumerates candidate files under a root, honoring layered
// ignore rules (C1 of the spec).
package walker

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charlievieth/fastwalk"
)

// File is one enumerated candidate.
type File struct {
	AbsPath string
	RelPath string
	Size    int64
}

// SkipReason buckets why a path was not returned, for diagnostics.
type SkipReason string

const (
	SkipIgnored  SkipReason = "ignored"
	SkipTooLarge SkipReason = "too_large"
	SkipNotFile  SkipReason = "not_a_regular_file"
)

// alwaysIgnore is the built-in always-ignore set (spec §4.1 item 2):
// VCS metadata, the product's own state directory, and common scratch
// paths.
var alwaysIgnore = map[string]bool{
	".git": true, ".octocode": true,
	"node_modules": true, "vendor": true, "bower_components": true,
	"dist": true, "build": true, "out": true, "target": true,
	".idea": true, ".vscode": true, ".vs": true,
	"__pycache__": true, ".pytest_cache": true, ".mypy_cache": true,
	".DS_Store": true, "Thumbs.db": true,
	".next": true, ".nuxt": true, ".cache": true,
}

// Options configures a walk.
type Options struct {
	// MaxFileSize in bytes; files larger are skipped. 0 means unlimited.
	MaxFileSize int64
	Logger      *slog.Logger
}

// Walker enumerates files under a root.
type Walker struct {
	root    string
	opts    Options
	ignores *ignoreSet
	logger  *slog.Logger
}

// New builds a Walker rooted at root, loading .gitignore/.noindex files
// from the tree ahead of time so ignore precedence can be resolved by
// nearest ancestor during the walk.
func New(root string, opts Options) (*Walker, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	ignores, err := loadIgnoreSet(abs)
	if err != nil {
		return nil, err
	}
	return &Walker{root: abs, opts: opts, ignores: ignores, logger: opts.Logger}, nil
}

// IsIgnored reports whether relPath (relative to the walker's root, using
// forward slashes) would be skipped by Walk's ignore rules — the
// always-ignore set, hidden-directory convention, and loaded
// .gitignore/.noindex rules. Used by the watch supervisor (C10) to drop
// filesystem events before they ever reach debouncing (spec §4.10).
func (w *Walker) IsIgnored(relPath string, isDir bool) bool {
	base := filepath.Base(relPath)
	if isDir {
		if alwaysIgnore[base] || strings.HasPrefix(base, ".") {
			return true
		}
		return w.ignores.match(relPath, true)
	}
	if alwaysIgnore[base] {
		return true
	}
	return w.ignores.match(relPath, false)
}

// Walk enumerates every non-ignored, non-oversized regular file under the
// root and calls fn for each, in a deterministic (lexicographic) order
// within one run (spec §4.1: "ordering is unspecified but deterministic
// within one run").
func (w *Walker) Walk(fn func(File) error) error {
	var files []File
	skipped := map[SkipReason]int{}

	walkErr := fastwalk.Walk(&fastwalk.Config{Follow: false}, w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if d != nil && d.IsDir() {
					return fastwalk.SkipDir
				}
				return nil
			}
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		base := filepath.Base(path)

		if d.IsDir() {
			if alwaysIgnore[base] || strings.HasPrefix(base, ".") {
				return fastwalk.SkipDir
			}
			if w.ignores.match(rel, true) {
				return fastwalk.SkipDir
			}
			return nil
		}

		if alwaysIgnore[base] {
			skipped[SkipIgnored]++
			return nil
		}
		if w.ignores.match(rel, false) {
			skipped[SkipIgnored]++
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			skipped[SkipNotFile]++
			return nil
		}
		if w.opts.MaxFileSize > 0 && info.Size() > w.opts.MaxFileSize {
			skipped[SkipTooLarge]++
			return nil
		}

		files = append(files, File{AbsPath: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	w.logger.Debug("walker.scan.done", "files", len(files), "skipped_ignored", skipped[SkipIgnored],
		"skipped_too_large", skipped[SkipTooLarge], "skipped_not_file", skipped[SkipNotFile])

	for _, f := range files {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
