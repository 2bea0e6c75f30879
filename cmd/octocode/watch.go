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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bysensa/octocode/internal/bootstrap"
	"github.com/bysensa/octocode/internal/config"
	cerrors "github.com/bysensa/octocode/internal/errors"
	"github.com/bysensa/octocode/pkg/watch"
)

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	root := fs.String("root", ".", "root directory to watch")
	configPath := fs.String("config", "octocode.toml", "path to the config file")
	noGit := fs.Bool("no-git", false, "watch a directory that is not a git repository")
	debounce := fs.Int("debounce", 0, "debounce window in seconds (0 uses watch.debounce_seconds)")
	additionalDelay := fs.Int("additional-delay", -1, "settle delay in milliseconds (-1 uses watch.additional_delay_ms)")
	fs.Parse(args)

	cfg, err := config.Load(configPathOrEmpty(*configPath))
	if err != nil {
		cerrors.FatalError(err, false)
	}
	if *debounce > 0 {
		cfg.Watch.DebounceSeconds = *debounce
	}
	if *additionalDelay >= 0 {
		cfg.Watch.AdditionalDelayMS = *additionalDelay
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, *root, *cfg, logger)
	if err != nil {
		cerrors.FatalError(err, false)
	}
	defer app.Close()

	reindex := func(ctx context.Context, changedPaths []string) error {
		result, err := app.RunIndex(ctx, *noGit, false)
		if err != nil {
			return err
		}
		logger.Info("watch.reindexed",
			"changed_hint", len(changedPaths),
			"added", result.FilesAdded, "modified", result.FilesModified, "deleted", result.FilesDeleted)
		return nil
	}

	fmt.Printf("Watching %s (debounce %ds, settle %dms). Press Ctrl-C to stop.\n",
		*root, cfg.Watch.DebounceSeconds, cfg.Watch.AdditionalDelayMS)

	supervisor := watch.New(app.WatchConfig(reindex))
	if err := supervisor.Run(ctx); err != nil {
		cerrors.FatalError(err, false)
	}
}
