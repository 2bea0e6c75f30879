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

package statedir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// stateDirEnvVar overrides the base directory state directories are created
// under (spec §6: "a variable overriding the state-directory root").
const stateDirEnvVar = "OCTOCODE_STATE_DIR"

// Dir identifies the state directory for one indexed root.
type Dir struct {
	// Root is the indexed root, absolute and cleaned.
	Root string
	// Path is the state directory itself.
	Path string
}

// Resolve computes the state directory for root without creating it.
// Two different roots never collide: the directory name is the root's
// basename plus a hash of its absolute path, so it stays identifiable in a
// directory listing while remaining unique.
func Resolve(root string) (Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Dir{}, fmt.Errorf("statedir: resolve %s: %w", root, err)
	}
	abs = filepath.Clean(abs)

	base, err := baseDir()
	if err != nil {
		return Dir{}, err
	}

	sum := sha256.Sum256([]byte(abs))
	slug := filepath.Base(abs) + "-" + hex.EncodeToString(sum[:])[:16]
	return Dir{Root: abs, Path: filepath.Join(base, slug)}, nil
}

func baseDir() (string, error) {
	if v := os.Getenv(stateDirEnvVar); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("statedir: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".octocode", "state"), nil
}

// Ensure creates the state directory if it doesn't exist.
func (d Dir) Ensure() error {
	return os.MkdirAll(d.Path, 0o755)
}

// VectorDataDir is the directory storage.EmbeddedConfig.DataDir should
// point at; the backend creates its own "vectors" subdirectory underneath.
func (d Dir) VectorDataDir() string {
	return d.Path
}

func (d Dir) sidecarPath() string {
	return filepath.Join(d.Path, "state.json")
}

func (d Dir) lockPath() string {
	return filepath.Join(d.Path, "octocode.lock")
}
