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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bysensa/octocode/internal/config"
)

func TestResolveIsDeterministicAndDistinct(t *testing.T) {
	root := t.TempDir()
	a, err := Resolve(root)
	require.NoError(t, err)
	b, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, a.Path, b.Path)

	other, err := Resolve(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, other.Path)
}

func TestResolveHonorsEnvOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv(stateDirEnvVar, base)
	d, err := Resolve(t.TempDir())
	require.NoError(t, err)
	assert.True(t, filepathHasPrefix(d.Path, base))
}

func filepathHasPrefix(path, prefix string) bool {
	rel, err := filepath.Rel(prefix, path)
	return err == nil && rel != ".." && len(rel) > 0 && rel[0] != '.'
}

func TestSidecarRoundTrip(t *testing.T) {
	d, err := Resolve(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, d.Ensure())

	empty, err := d.LoadSidecar()
	require.NoError(t, err)
	assert.Equal(t, Sidecar{}, empty)

	want := Sidecar{LastIndexedCommit: "deadbeef", ConfigVersion: 42}
	require.NoError(t, d.SaveSidecar(want))

	got, err := d.LoadSidecar()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigVersionChangesWithChunkSize(t *testing.T) {
	a := config.Default()
	b := config.Default()
	b.Index.ChunkSize = a.Index.ChunkSize + 1
	assert.NotEqual(t, ConfigVersion(a), ConfigVersion(b))
}

func TestConfigVersionStableForEquivalentConfig(t *testing.T) {
	a := config.Default()
	b := config.Default()
	assert.Equal(t, ConfigVersion(a), ConfigVersion(b))
}

func TestAcquireLockRejectsSecondHolder(t *testing.T) {
	d, err := Resolve(t.TempDir())
	require.NoError(t, err)

	l1, err := d.AcquireLock()
	require.NoError(t, err)
	defer l1.Release()

	_, err = d.AcquireLock()
	assert.Error(t, err)
}

func TestReleaseThenAcquireSucceeds(t *testing.T) {
	d, err := Resolve(t.TempDir())
	require.NoError(t, err)

	l1, err := d.AcquireLock()
	require.NoError(t, err)
	require.NoError(t, l1.Release())

	l2, err := d.AcquireLock()
	require.NoError(t, err)
	defer l2.Release()
}
