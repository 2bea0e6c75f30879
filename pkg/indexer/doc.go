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

// Package indexer orchestrates C1 (walker) through C5 (storage) into one
// indexing cycle (spec §4.6): load the prior state snapshot, restrict work
// to a git delta when one is available, parse and embed changed files,
// flush to the store under a dual-budget batch policy, and report the
// commit the cycle ended at for the caller to record.
package indexer
