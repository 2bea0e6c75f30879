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

	"github.com/bysensa/octocode/internal/bootstrap"
	"github.com/bysensa/octocode/internal/config"
	cerrors "github.com/bysensa/octocode/internal/errors"
	"github.com/bysensa/octocode/internal/output"
)

func runIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	root := fs.String("root", ".", "root directory to index")
	configPath := fs.String("config", "octocode.toml", "path to the config file")
	reindex := fs.Bool("reindex", false, "force a full reindex, ignoring the recorded head commit")
	noGit := fs.Bool("no-git", false, "index a directory that is not a git repository")
	jsonOut := fs.Bool("json", false, "emit the result as JSON")
	fs.Parse(args)

	cfg, err := config.Load(configPathOrEmpty(*configPath))
	if err != nil {
		cerrors.FatalError(err, *jsonOut)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	app, err := bootstrap.Open(ctx, *root, *cfg, logger)
	if err != nil {
		cerrors.FatalError(err, *jsonOut)
	}
	defer app.Close()

	spinner := newSpinner("indexing")
	result, err := app.RunIndex(ctx, *noGit, *reindex)
	finishSpinner(spinner)
	if err != nil {
		cerrors.FatalError(err, *jsonOut)
	}

	if *jsonOut {
		if err := output.JSON(result); err != nil {
			cerrors.FatalError(err, true)
		}
		return
	}

	fmt.Printf("Indexed %s in %s\n", *root, result.Duration.Round(durationPrecision))
	fmt.Printf("  files:  +%d added, ~%d modified, -%d deleted, %d skipped\n",
		result.FilesAdded, result.FilesModified, result.FilesDeleted, result.FilesSkipped)
	fmt.Printf("  blocks: %d written across %d batches\n", result.BlocksWritten, result.BatchesSent)
	if result.ParseErrors > 0 || result.EmbedErrors > 0 {
		fmt.Printf("  errors: %d parse, %d embedding\n", result.ParseErrors, result.EmbedErrors)
	}
	if result.HeadCommit != "" {
		fmt.Printf("  head:   %s\n", result.HeadCommit)
	}
}

// configPathOrEmpty treats a missing default config file as "no config",
// falling back to config.Default instead of failing outright; an explicitly
// named file that doesn't exist still errors in config.Load.
func configPathOrEmpty(path string) string {
	if path == "octocode.toml" {
		if _, err := os.Stat(path); err != nil {
			return ""
		}
	}
	return path
}
