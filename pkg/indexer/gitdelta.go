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

package indexer

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// GitDelta is the set of paths changed between two commits (spec §4.6
// step 3).
type GitDelta struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// All returns the union of every changed path, in the order Added,
// Modified, Deleted.
func (d GitDelta) All() []string {
	out := make([]string, 0, len(d.Added)+len(d.Modified)+len(d.Deleted))
	out = append(out, d.Added...)
	out = append(out, d.Modified...)
	out = append(out, d.Deleted...)
	return out
}

// IsGitRepository reports whether root is inside a git working tree.
func IsGitRepository(root string) bool {
	_, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// HeadCommit resolves root's current HEAD to a commit hash.
func HeadCommit(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("indexer: open git repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("indexer: resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// DetectDelta computes the paths changed between baseSHA and HEAD at root.
// An empty baseSHA diffs against an empty tree, so every tracked file comes
// back as Added — the initial-ingestion case (spec §4.6 step 3: "If ...
// the repository has recorded a last_indexed_commit, compute the set of
// paths changed between that commit and HEAD").
func DetectDelta(root, baseSHA string) (*GitDelta, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("indexer: open git repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("indexer: resolve HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("indexer: load HEAD commit: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("indexer: load HEAD tree: %w", err)
	}

	var baseTree *object.Tree
	if baseSHA != "" {
		baseCommit, err := repo.CommitObject(plumbing.NewHash(baseSHA))
		if err != nil {
			return nil, fmt.Errorf("indexer: load base commit %s: %w", baseSHA, err)
		}
		baseTree, err = baseCommit.Tree()
		if err != nil {
			return nil, fmt.Errorf("indexer: load base tree: %w", err)
		}
	}

	changes, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, fmt.Errorf("indexer: diff trees: %w", err)
	}

	delta := &GitDelta{}
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			continue
		}
		switch action {
		case merkletrie.Insert:
			delta.Added = append(delta.Added, change.To.Name)
		case merkletrie.Modify:
			if change.From.Name != "" && change.From.Name != change.To.Name {
				// A rename: treat as delete-of-old plus add-of-new. The
				// indexer's unit of work is the path, so this is
				// equivalent to explicit rename tracking — a "deleted"
				// path drops its Blocks either way, and an "added" path
				// gets them rebuilt from scratch.
				delta.Deleted = append(delta.Deleted, change.From.Name)
				delta.Added = append(delta.Added, change.To.Name)
				continue
			}
			delta.Modified = append(delta.Modified, change.To.Name)
		case merkletrie.Delete:
			delta.Deleted = append(delta.Deleted, change.From.Name)
		}
	}
	return delta, nil
}
