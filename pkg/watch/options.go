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

package watch

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultDebounceWindow = 2 * time.Second
	minDebounceWindow     = 1 * time.Second
	maxDebounceWindow     = 30 * time.Second

	defaultSettleDelay = 1000 * time.Millisecond
	minSettleDelay     = 0
	maxSettleDelay     = 5000 * time.Millisecond
)

// Reindexer runs one C6 reindex cycle. changedPaths is a hint only — spec
// §4.10 says the collected change set is passed as a hint, and C6's own
// delta detection remains authoritative for what actually gets reprocessed.
type Reindexer func(ctx context.Context, changedPaths []string) error

// Config wires a Supervisor's dependencies.
type Config struct {
	// Root is the directory tree to watch, recursively.
	Root string

	// IsIgnored reports whether relPath should be dropped before
	// debouncing (spec §4.10: "Events for paths rejected by the Walker's
	// ignore rules are dropped before debouncing"). Typically
	// (*walker.Walker).IsIgnored.
	IsIgnored func(relPath string, isDir bool) bool

	Reindex Reindexer

	// DebounceWindow collapses repeated events on the same path. Clamped
	// to [1s, 30s]; zero means defaultDebounceWindow.
	DebounceWindow time.Duration

	// SettleDelay runs after the debounce window closes, before dispatch,
	// to let bulk operations settle. Clamped to [0, 5s]; zero means
	// defaultSettleDelay, consistent with this package's other
	// zero-means-default duration fields.
	SettleDelay time.Duration

	Logger *slog.Logger
}

func (c Config) debounceWindow() time.Duration {
	d := c.DebounceWindow
	if d == 0 {
		d = defaultDebounceWindow
	}
	if d < minDebounceWindow {
		d = minDebounceWindow
	}
	if d > maxDebounceWindow {
		d = maxDebounceWindow
	}
	return d
}

func (c Config) settleDelay() time.Duration {
	d := c.SettleDelay
	if d == 0 {
		d = defaultSettleDelay
	}
	if d < minSettleDelay {
		d = minSettleDelay
	}
	if d > maxSettleDelay {
		d = maxSettleDelay
	}
	return d
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
