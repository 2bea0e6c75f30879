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

package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bysensa/octocode/pkg/embedding"
	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/model"
	"github.com/bysensa/octocode/pkg/region"
	"github.com/bysensa/octocode/pkg/storage"
	"github.com/bysensa/octocode/pkg/walker"
)

// Pipeline orchestrates one indexing cycle over a root (spec §4.6).
type Pipeline struct {
	cfg    Config
	store  *storage.EmbeddedBackend
	langs  *langreg.Registry
	logger *slog.Logger
}

// New builds a Pipeline. store must already have its schema ensured.
func New(cfg Config, store *storage.EmbeddedBackend) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, langs: langreg.New(), logger: cfg.logger()}
}

// Result summarizes one cycle.
type Result struct {
	HeadCommit string // empty when the root is not a git repository

	FilesAdded    int
	FilesModified int
	FilesDeleted  int
	FilesSkipped  int
	ParseErrors   int

	BlocksWritten int
	BatchesSent   int
	EmbedErrors   int

	Duration time.Duration
}

// Run executes one full cycle (spec §4.6 steps 1-8). prevCommit is the
// last_indexed_commit recorded for this root by the caller (internal
// statedir sidecar); pass "" when none is on record or --reindex was
// requested. The returned Result.HeadCommit is what the caller should
// persist as the new last_indexed_commit (step 8); it is "" when the root
// isn't a git repository, in which case the caller should leave its record
// empty too.
func (p *Pipeline) Run(ctx context.Context, prevCommit string) (*Result, error) {
	metrics.init()
	start := time.Now()
	res := &Result{}

	p.logger.Info("indexer.cycle.start", "root", p.cfg.Root)

	// Step 1+2: open store (already open), load prior snapshot.
	snapshot, err := p.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("indexer: load snapshot: %w", err)
	}

	// Step 3: determine candidate paths.
	toProcess, toDelete, headCommit, err := p.selectCandidates(ctx, prevCommit, snapshot)
	if err != nil {
		return nil, fmt.Errorf("indexer: select candidates: %w", err)
	}
	res.HeadCommit = headCommit

	codeBatch := newFlushBatch(model.KindCode, p.cfg.CodeProvider, p.store, p.cfg.embeddingsBatchSize(), p.cfg.maxBatchTokens())
	textBatch := newFlushBatch(model.KindText, p.cfg.TextProvider, p.store, p.cfg.embeddingsBatchSize(), p.cfg.maxBatchTokens())

	durablePaths := map[string]model.File{}
	batchesSinceCheckpoint := 0
	checkpoint := func() error {
		if len(durablePaths) == 0 {
			return nil
		}
		for _, f := range durablePaths {
			if err := p.store.UpsertFile(ctx, f); err != nil {
				return fmt.Errorf("checkpoint file row for %s: %w", f.Path, err)
			}
		}
		p.logger.Debug("indexer.cycle.checkpoint", "files", len(durablePaths))
		durablePaths = map[string]model.File{}
		return nil
	}

	flush := func(b *flushBatch) error {
		flushed, storedPaths, err := b.flush(ctx)
		if err != nil {
			res.EmbedErrors++
			metrics.embedErrors.Inc()
			p.logger.Warn("indexer.cycle.embed.error", "kind", b.kind, "err", err)
			return nil // embedding failure is batch-scoped, non-fatal (spec §7)
		}
		if flushed == 0 {
			return nil
		}
		res.BlocksWritten += flushed
		res.BatchesSent++
		metrics.blocksWritten.Add(float64(flushed))
		metrics.batchesSent.Inc()
		for path, f := range storedPaths {
			durablePaths[path] = f
		}
		batchesSinceCheckpoint++
		if batchesSinceCheckpoint >= durabilityFlushEveryBatches {
			batchesSinceCheckpoint = 0
			if err := checkpoint(); err != nil {
				return err
			}
		}
		return nil
	}

	// Step 4: deletions first.
	for _, path := range toDelete {
		if err := p.store.DeleteByPath(ctx, path); err != nil {
			return nil, fmt.Errorf("indexer: delete %s: %w", path, err)
		}
		res.FilesDeleted++
		metrics.filesDeleted.Inc()
	}

	// Step 4 (continued): process surviving candidates.
	for _, rel := range toProcess {
		abs := filepath.Join(p.cfg.Root, rel)
		content, err := os.ReadFile(abs)
		if err != nil {
			p.logger.Warn("indexer.cycle.read.error", "path", rel, "err", err)
			res.ParseErrors++
			metrics.parseErrors.Inc()
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			p.logger.Warn("indexer.cycle.stat.error", "path", rel, "err", err)
			continue
		}
		hash := contentHash(content)
		mtime := info.ModTime().Unix()

		if prior, ok := snapshot[rel]; ok && prior.ContentHash == hash && prior.LastModified == mtime {
			res.FilesSkipped++
			metrics.filesSkipped.Inc()
			continue
		}

		language := walker.DetectLanguage(rel)
		var adapter langreg.Adapter
		if language != "" {
			adapter, _ = p.langs.Get(language)
		}
		blocks := region.Build(rel, language, content, adapter, p.cfg.RegionOptions)

		// Differential replacement: delete this path's existing blocks
		// across every kind (its kind may have changed between runs, e.g.
		// a file's language detection result changed), then append fresh
		// ones to the pending batch.
		for _, kind := range []model.BlockKind{model.KindCode, model.KindDoc, model.KindText} {
			if err := p.store.DeleteBlocksByPath(ctx, kind, rel); err != nil {
				return nil, fmt.Errorf("indexer: delete blocks for %s: %w", rel, err)
			}
		}

		file := model.File{Path: rel, Language: language, ContentHash: hash, LastModified: mtime, LastCommit: headCommit}
		for _, blk := range blocks {
			target := textBatch
			if blk.Kind == model.KindCode {
				target = codeBatch
			}
			target.push(blk, file)
			if target.ready() {
				if err := flush(target); err != nil {
					return nil, err
				}
			}
		}

		if _, existed := snapshot[rel]; existed {
			res.FilesModified++
			metrics.filesModified.Inc()
		} else {
			res.FilesAdded++
			metrics.filesAdded.Inc()
		}
	}

	// Step 5/6 (tail): flush whatever remains regardless of budget.
	if err := flush(codeBatch); err != nil {
		return nil, err
	}
	if err := flush(textBatch); err != nil {
		return nil, err
	}

	// Step 7: final File-row checkpoint, then GraphRAG reconciliation.
	if err := checkpoint(); err != nil {
		return nil, err
	}
	if p.cfg.GraphRAGEnabled && p.cfg.Graph != nil {
		changed := make([]string, 0, len(toProcess)+len(toDelete))
		changed = append(changed, toProcess...)
		changed = append(changed, toDelete...)
		if err := p.cfg.Graph.Reconcile(ctx, changed); err != nil {
			p.logger.Warn("indexer.cycle.graphrag.error", "err", err)
		}
	}

	res.Duration = time.Since(start)
	metrics.cycleDuration.Observe(res.Duration.Seconds())
	p.logger.Info("indexer.cycle.complete",
		"added", res.FilesAdded, "modified", res.FilesModified, "deleted", res.FilesDeleted,
		"skipped", res.FilesSkipped, "parse_errors", res.ParseErrors,
		"blocks_written", res.BlocksWritten, "batches_sent", res.BatchesSent, "embed_errors", res.EmbedErrors,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// loadSnapshot builds the path -> File lookup (spec §4.6 step 2).
func (p *Pipeline) loadSnapshot(ctx context.Context) (map[string]model.File, error) {
	files, err := p.store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.File, len(files))
	for _, f := range files {
		out[f.Path] = f
	}
	return out, nil
}

// selectCandidates implements spec §4.6 step 3: restrict work to a git
// delta when one is available, otherwise enumerate the whole tree via C1.
func (p *Pipeline) selectCandidates(ctx context.Context, prevCommit string, snapshot map[string]model.File) (toProcess, toDelete []string, headCommit string, err error) {
	useGit := !p.cfg.NoGit && IsGitRepository(p.cfg.Root)
	if p.cfg.RequireGit && !p.cfg.NoGit && !useGit {
		return nil, nil, "", fmt.Errorf("indexer: %s is not a git repository (index.require_git is true; pass --no-git to override)", p.cfg.Root)
	}

	if useGit {
		headCommit, err = HeadCommit(p.cfg.Root)
		if err != nil {
			return nil, nil, "", err
		}
	}

	if useGit && !p.cfg.Reindex && prevCommit != "" {
		deltaStart := time.Now()
		delta, derr := DetectDelta(p.cfg.Root, prevCommit)
		metrics.deltaDuration.Observe(time.Since(deltaStart).Seconds())
		if derr != nil {
			return nil, nil, "", derr
		}
		p.logger.Info("indexer.cycle.delta", "added", len(delta.Added), "modified", len(delta.Modified), "deleted", len(delta.Deleted))
		return append(delta.Added, delta.Modified...), delta.Deleted, headCommit, nil
	}

	// Full enumeration: either no VCS, an initial run, or --reindex.
	w, werr := walker.New(p.cfg.Root, walker.Options{MaxFileSize: p.cfg.MaxFileSizeBytes, Logger: p.logger})
	if werr != nil {
		return nil, nil, "", werr
	}
	seen := map[string]bool{}
	if err := w.Walk(func(f walker.File) error {
		seen[f.RelPath] = true
		toProcess = append(toProcess, f.RelPath)
		return nil
	}); err != nil {
		return nil, nil, "", err
	}
	for path := range snapshot {
		if !seen[path] {
			toDelete = append(toDelete, path)
		}
	}
	return toProcess, toDelete, headCommit, nil
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// flushBatch accumulates Blocks of one logical kind bucket (code, or
// text+doc sharing the text provider) until either budget trips, embeds
// them, and stores them (spec §4.6 step 5). Block.Kind may differ from the
// bucket's nominal kind for the text/doc bucket, so storage groups by each
// block's own Kind.
type flushBatch struct {
	kind      model.BlockKind
	provider  embedding.Provider
	store     *storage.EmbeddedBackend
	estimator *embedding.TokenEstimator
	maxCount  int
	maxTokens int

	pending []model.Block
	files   []model.File // parallel to pending, the owning File row
	tokens  int
}

func newFlushBatch(kind model.BlockKind, provider embedding.Provider, store *storage.EmbeddedBackend, maxCount, maxTokens int) *flushBatch {
	return &flushBatch{
		kind: kind, provider: provider, store: store,
		estimator: embedding.NewTokenEstimator(nil),
		maxCount:  maxCount, maxTokens: maxTokens,
	}
}

func (b *flushBatch) push(blk model.Block, file model.File) {
	b.pending = append(b.pending, blk)
	b.files = append(b.files, file)
	b.tokens += b.estimator.Estimate(blk.Content)
}

func (b *flushBatch) ready() bool {
	return len(b.pending) >= b.maxCount || b.tokens >= b.maxTokens
}

// flush embeds and stores every pending block, grouped by its actual Kind,
// and returns how many blocks were written plus the set of paths that are
// now fully durable (every block of this flush stored successfully).
func (b *flushBatch) flush(ctx context.Context) (int, map[string]model.File, error) {
	if len(b.pending) == 0 {
		return 0, nil, nil
	}
	blocks, files := b.pending, b.files
	b.pending, b.files, b.tokens = nil, nil, 0

	if b.provider == nil {
		return 0, nil, fmt.Errorf("indexer: no embedding provider configured for %s blocks", b.kind)
	}

	texts := make([]string, len(blocks))
	for i, blk := range blocks {
		texts[i] = blk.Content
	}
	vectors, err := b.provider.Embed(ctx, texts, embedding.InputDocument)
	if err != nil {
		return 0, nil, err
	}
	for i := range blocks {
		blocks[i].Embedding = vectors[i]
	}

	byKind := map[model.BlockKind][]model.Block{}
	for _, blk := range blocks {
		byKind[blk.Kind] = append(byKind[blk.Kind], blk)
	}

	written := 0
	for kind, group := range byKind {
		n, err := b.store.StoreBlocks(ctx, kind, group)
		if err != nil {
			return written, nil, err
		}
		written += n
	}

	durable := make(map[string]model.File, len(files))
	for _, f := range files {
		durable[f.Path] = f
	}
	return written, durable, nil
}
