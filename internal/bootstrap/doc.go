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

// Package bootstrap wires one indexed root's state directory, store, and
// every capability (C1-C10) into an App the CLI wrappers drive.
//
// # Typical workflow
//
//	cfg, err := config.Load(configPath)
//	app, err := bootstrap.Open(ctx, root, *cfg, logger)
//	defer app.Close()
//
//	result, err := app.RunIndex(ctx, noGit, reindex)
//
// Open acquires the state directory's single-writer lock (spec §5) for the
// lifetime of the App; Close releases it. When wiring fails partway
// through, Open releases the lock itself before returning the error.
package bootstrap
