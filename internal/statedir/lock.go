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
	"fmt"
	"os"

	cerrors "github.com/bysensa/octocode/internal/errors"
)

// Lock is the cross-process half of the store's single-writer guarantee
// (spec §5; the in-process half is EmbeddedBackend's mutex). Held for the
// lifetime of one bootstrap.App, i.e. a whole CLI command; a watch session
// holds it until the command exits.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates the lock file exclusively, failing if another process
// already holds it.
func (d Dir) AcquireLock() (*Lock, error) {
	if err := d.Ensure(); err != nil {
		return nil, fmt.Errorf("statedir: create state dir: %w", err)
	}
	path := d.lockPath()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, cerrors.NewDatabaseError(
				"State directory is locked",
				fmt.Sprintf("another octocode process holds the lock at %s", path),
				"Wait for the other process to finish, or remove the lock file if you're certain none is running",
				err,
			)
		}
		return nil, fmt.Errorf("statedir: create lock: %w", err)
	}
	fmt.Fprintf(f, "pid=%d\n", os.Getpid())
	return &Lock{path: path, file: f}, nil
}

// Release removes the lock file, freeing it for the next writer.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	_ = l.file.Close()
	return os.Remove(l.path)
}
