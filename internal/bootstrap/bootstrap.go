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

// Package bootstrap wires the core components (C1-C10) into one App for a
// single indexed root: it resolves the state directory, acquires the
// single-writer lock, opens the store, and constructs the embedding
// providers, search engine, GraphRAG reconciler, and memory store the CLI
// wrappers drive. This is the concrete builder pkg/indexer.GraphReconciler's
// doc comment refers to as "wired in by the CLI bootstrap".
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bysensa/octocode/internal/config"
	"github.com/bysensa/octocode/internal/statedir"
	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/graphrag"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/llm"
	"github.com/bysensa/octocode/pkg/llmcap"
	"github.com/bysensa/octocode/pkg/memory"
	"github.com/bysensa/octocode/pkg/search"
	"github.com/bysensa/octocode/pkg/storage"
	"github.com/bysensa/octocode/pkg/walker"
)

// App bundles every capability a CLI command needs against one indexed
// root, already opened and ready to use.
type App struct {
	Config config.Config
	State  statedir.Dir
	Logger *slog.Logger

	lock *statedir.Lock

	Store *storage.EmbeddedBackend
	Langs *langreg.Registry
	Walk  *walker.Walker

	CodeProvider embedding.Provider
	TextProvider embedding.Provider

	// LLM is non-nil only when Config.GraphRAG.UseLLM is set.
	LLM llmcap.Capability

	Search    *search.Engine
	Memory    *memory.Store
	Graph     *graphrag.Reconciler
	Retriever *graphrag.Retriever
}

// Open resolves root's state directory, acquires its single-writer lock,
// and wires up every capability. Callers must call Close when done.
func Open(ctx context.Context, root string, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	state, err := statedir.Resolve(root)
	if err != nil {
		return nil, err
	}
	lock, err := state.AcquireLock()
	if err != nil {
		return nil, err
	}

	app, err := wire(ctx, state, cfg, logger)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	app.lock = lock
	return app, nil
}

func wire(ctx context.Context, state statedir.Dir, cfg config.Config, logger *slog.Logger) (*App, error) {
	codeProvider, err := embedding.Parse(cfg.Embedding.CodeModel, cfg.Embedding.ResolveAPIKey(providerName(cfg.Embedding.CodeModel)), logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: code embedding provider: %w", err)
	}
	textProvider, err := embedding.Parse(cfg.Embedding.TextModel, cfg.Embedding.ResolveAPIKey(providerName(cfg.Embedding.TextModel)), logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: text embedding provider: %w", err)
	}

	store, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		DataDir: state.VectorDataDir(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open store: %w", err)
	}
	if err := store.EnsureSchema(ctx, storage.Dims{Code: codeProvider.Dim(), Text: textProvider.Dim()}); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap: ensure schema: %w", err)
	}

	langs := langreg.New()
	w, err := walker.New(state.Root, walker.Options{Logger: logger})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap: walker: %w", err)
	}

	var llmCap llmcap.Capability
	if cfg.GraphRAG.UseLLM {
		provider, err := llm.DefaultProvider()
		if err != nil {
			logger.Warn("bootstrap.llm.unavailable", "err", err)
		} else {
			llmCap = llmcap.FromProvider(provider)
		}
	}

	graph := graphrag.New(graphrag.Config{
		Store:               store,
		Root:                state.Root,
		Langs:               langs,
		TextProvider:        textProvider,
		LLM:                 llmCap,
		UseLLM:              cfg.GraphRAG.UseLLM,
		ConfidenceThreshold: cfg.GraphRAG.ConfidenceThreshold,
		Logger:              logger,
	})

	return &App{
		Config:       cfg,
		State:        state,
		Logger:       logger,
		Store:        store,
		Langs:        langs,
		Walk:         w,
		CodeProvider: codeProvider,
		TextProvider: textProvider,
		LLM:          llmCap,
		Search:       search.New(store, codeProvider, textProvider, langs),
		Memory:       memory.New(store, textProvider),
		Graph:        graph,
		Retriever:    graphrag.NewRetriever(store, textProvider),
	}, nil
}

// Close releases the store and the single-writer lock. Safe to call once.
func (a *App) Close() error {
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.lock != nil {
		if e := a.lock.Release(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// providerName returns the provider half of a "provider:model" spec, used
// to look up its embedding.<provider>.api_key / <PROVIDER>_API_KEY.
func providerName(spec string) string {
	name, _, _ := strings.Cut(spec, ":")
	return name
}
