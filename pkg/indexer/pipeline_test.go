package indexer

import (
	"testing"

	"github.com/bysensa/octocode/pkg/model"
)

func TestFlushBatchReadyOnCountBudget(t *testing.T) {
	b := newFlushBatch(model.KindCode, nil, nil, 2, 1_000_000)
	b.push(model.Block{Content: "a"}, model.File{Path: "a.go"})
	if b.ready() {
		t.Fatal("expected not ready after 1 of 2")
	}
	b.push(model.Block{Content: "b"}, model.File{Path: "a.go"})
	if !b.ready() {
		t.Fatal("expected ready at count budget")
	}
}

func TestFlushBatchReadyOnTokenBudget(t *testing.T) {
	big := make([]byte, 4000)
	for i := range big {
		big[i] = 'x'
	}
	b := newFlushBatch(model.KindCode, nil, nil, 100, 10)
	b.push(model.Block{Content: string(big)}, model.File{Path: "a.go"})
	if !b.ready() {
		t.Fatal("expected token budget to trip on a single large block")
	}
}

func TestFlushBatchFlushEmptyIsNoOp(t *testing.T) {
	b := newFlushBatch(model.KindCode, nil, nil, 2, 1_000_000)
	n, _, err := b.flush(nil)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op flush on empty batch, got n=%d err=%v", n, err)
	}
}

func TestGitDeltaAllOrdersAddedModifiedDeleted(t *testing.T) {
	d := GitDelta{Added: []string{"a"}, Modified: []string{"b"}, Deleted: []string{"c"}}
	all := d.All()
	if len(all) != 3 || all[0] != "a" || all[1] != "b" || all[2] != "c" {
		t.Fatalf("unexpected order: %v", all)
	}
}

func TestContentHashDeterministic(t *testing.T) {
	h1 := contentHash([]byte("package main\n"))
	h2 := contentHash([]byte("package main\n"))
	if h1 != h2 {
		t.Fatal("expected deterministic hash for identical content")
	}
	if h1 == contentHash([]byte("package other\n")) {
		t.Fatal("expected different hash for different content")
	}
}
