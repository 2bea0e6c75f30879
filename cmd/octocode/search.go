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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bysensa/octocode/internal/bootstrap"
	"github.com/bysensa/octocode/internal/config"
	cerrors "github.com/bysensa/octocode/internal/errors"
	"github.com/bysensa/octocode/internal/output"
	"github.com/bysensa/octocode/pkg/search"
	"github.com/bysensa/octocode/pkg/storage"
)

func runSearch(args []string) {
	fs := pflag.NewFlagSet("search", pflag.ExitOnError)
	root := fs.String("root", ".", "root directory that was indexed")
	configPath := fs.String("config", "octocode.toml", "path to the config file")
	mode := fs.String("mode", "all", "all|code|docs|text")
	detail := fs.String("detail", "partial", "signatures|partial|full")
	max := fs.Int("max", 0, "max results (0 uses search.max_results)")
	threshold := fs.Float64("threshold", -1, "minimum similarity in [0,1] (-1 uses search.similarity_threshold)")
	path := fs.String("path", "", "restrict to an exact file path")
	language := fs.String("language", "", "restrict to a language")
	symbol := fs.String("symbol", "", "restrict to blocks containing this symbol")
	expand := fs.Bool("expand", false, "expand matched symbols' definitions")
	jsonOut := fs.Bool("json", false, "emit results as JSON")
	mdOut := fs.Bool("md", false, "emit results as Markdown")
	fs.Parse(args)

	queries := fs.Args()
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "search: at least one query string is required")
		os.Exit(cerrors.ExitInput)
	}

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

	opts := search.Options{
		Queries:             queries,
		Mode:                search.Mode(*mode),
		DetailLevel:         search.DetailLevel(*detail),
		MaxResults:          *max,
		SimilarityThreshold: resolveThreshold(*threshold, cfg.Search.SimilarityThreshold),
		Filters:             storage.Filters{Path: *path, Language: *language, Symbol: *symbol},
		ExpandSymbols:       *expand,
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = cfg.Search.MaxResults
	}

	resp, err := app.Search.Search(ctx, opts)
	if err != nil {
		cerrors.FatalError(err, *jsonOut)
	}

	switch {
	case *jsonOut:
		if err := output.JSON(search.ToJSON(resp)); err != nil {
			cerrors.FatalError(err, true)
		}
	case *mdOut:
		fmt.Print(search.FormatMarkdown(resp))
	default:
		fmt.Print(search.FormatText(resp))
	}
}

// resolveThreshold applies the CLI override only when the caller actually
// passed --threshold; the sentinel -1 means "use the config default".
func resolveThreshold(flagValue, configDefault float64) float64 {
	if flagValue < 0 {
		return configDefault
	}
	return flagValue
}
