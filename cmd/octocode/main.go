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

// Package main is a thin CLI wrapper over the octocode core (spec §6 marks
// the wrapper surface itself out of scope — only the operations it exposes
// are specified). It dispatches to the subcommands below, each of which
// wires one internal/bootstrap.App against the working root and drives a
// single core operation.
package main

import (
	"fmt"
	"os"
	"time"
)

var version = "dev"

// durationPrecision rounds reported run times to a human-friendly grain.
const durationPrecision = 10 * time.Millisecond

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "init":
		runInit(args)
	case "index":
		runIndex(args)
	case "search":
		runSearch(args)
	case "watch":
		runWatch(args)
	case "clear":
		runClear(args)
	case "version", "--version":
		fmt.Println("octocode " + version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "octocode: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `octocode - local semantic code search and knowledge graph

Usage:
  octocode <command> [options]

Commands:
  init      Write a config template at ./octocode.toml
  index     Index the current repository
  search    Run a multi-query semantic search
  watch     Watch the repository and reindex on change
  clear     Remove persisted state for the current root

Run 'octocode <command> -h' for command-specific options.
`)
}
