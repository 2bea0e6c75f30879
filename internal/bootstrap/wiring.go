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

package bootstrap

import (
	"context"
	"time"

	"github.com/bysensa/octocode/internal/statedir"
	"github.com/bysensa/octocode/pkg/indexer"
	"github.com/bysensa/octocode/pkg/region"
	"github.com/bysensa/octocode/pkg/watch"
)

// PipelineConfig builds one indexer.Run's configuration from the app's
// wired capabilities and config, plumbing in Graph only when GraphRAG is
// both enabled and was successfully wired (spec §4.6 step 7).
func (a *App) PipelineConfig(noGit, reindex bool) indexer.Config {
	var graph indexer.GraphReconciler
	if a.Config.Index.GraphRAGEnabled {
		graph = a.Graph
	}
	return indexer.Config{
		Root:         a.State.Root,
		CodeProvider: a.CodeProvider,
		TextProvider: a.TextProvider,
		RegionOptions: region.Options{
			ChunkSize:    a.Config.Index.ChunkSize,
			ChunkOverlap: a.Config.Index.ChunkOverlap,
		},
		EmbeddingsBatchSize: a.Config.Index.EmbeddingsBatchSize,
		MaxBatchTokens:      a.Config.Index.MaxBatchTokens,
		RequireGit:          a.Config.Index.RequireGit,
		NoGit:               noGit,
		Reindex:             reindex,
		GraphRAGEnabled:     a.Config.Index.GraphRAGEnabled,
		Graph:               graph,
		Logger:              a.Logger,
	}
}

// RunIndex runs one full indexer cycle and persists the resulting head
// commit and config version to the state directory's sidecar, so the next
// run's delta detection picks up where this one left off.
func (a *App) RunIndex(ctx context.Context, noGit, reindex bool) (*indexer.Result, error) {
	sidecar, err := a.State.LoadSidecar()
	if err != nil {
		return nil, err
	}

	prevCommit := sidecar.LastIndexedCommit
	if reindex {
		prevCommit = ""
	}

	pipeline := indexer.New(a.PipelineConfig(noGit, reindex), a.Store)
	result, err := pipeline.Run(ctx, prevCommit)
	if err != nil {
		return nil, err
	}

	sidecar.LastIndexedCommit = result.HeadCommit
	sidecar.ConfigVersion = statedir.ConfigVersion(a.Config)
	if err := a.State.SaveSidecar(sidecar); err != nil {
		return nil, err
	}
	return result, nil
}

// WatchConfig builds a watch.Supervisor configuration wrapping reindex,
// dropping ignored paths via the app's own Walker (spec §4.10).
func (a *App) WatchConfig(reindex watch.Reindexer) watch.Config {
	return watch.Config{
		Root:           a.State.Root,
		IsIgnored:      a.Walk.IsIgnored,
		Reindex:        reindex,
		DebounceWindow: time.Duration(a.Config.Watch.DebounceSeconds) * time.Second,
		SettleDelay:    time.Duration(a.Config.Watch.AdditionalDelayMS) * time.Millisecond,
		Logger:         a.Logger,
	}
}
