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
)

func runClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	root := fs.String("root", ".", "root directory whose state should be cleared")
	configPath := fs.String("config", "octocode.toml", "path to the config file")
	all := fs.Bool("all", false, "clear documents, graph and memories")
	documents := fs.Bool("documents", false, "clear indexed files and blocks")
	graphs := fs.Bool("graphs", false, "clear the knowledge graph")
	memories := fs.Bool("memories", false, "clear memories")
	fs.Parse(args)

	if !*all && !*documents && !*graphs && !*memories {
		fmt.Fprintln(os.Stderr, "clear: one of --all, --documents, --graphs, --memories is required")
		os.Exit(cerrors.ExitInput)
	}

	cfg, err := config.Load(configPathOrEmpty(*configPath))
	if err != nil {
		cerrors.FatalError(err, false)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	app, err := bootstrap.Open(ctx, *root, *cfg, logger)
	if err != nil {
		cerrors.FatalError(err, false)
	}
	defer app.Close()

	if *all || *documents {
		if err := app.Store.ClearDocuments(ctx); err != nil {
			cerrors.FatalError(err, false)
		}
		fmt.Println("Cleared documents.")
	}
	if *all || *graphs {
		if err := app.Store.ClearGraph(ctx); err != nil {
			cerrors.FatalError(err, false)
		}
		fmt.Println("Cleared graph.")
	}
	if *all || *memories {
		if err := app.Memory.ClearAll(ctx, true); err != nil {
			cerrors.FatalError(err, false)
		}
		fmt.Println("Cleared memories.")
	}
}
