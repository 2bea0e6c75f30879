package embedding

import (
	"context"
	"strings"
	"testing"
)

func TestBatcherSplitsOnCountBudget(t *testing.T) {
	b := NewBatcher(&TokenEstimator{}, 2, 1_000_000)
	texts := []string{"a", "b", "c", "d", "e"}
	batches := b.Split(texts)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches of <=2, got %d: %+v", len(batches), batches)
	}
	var seen []int
	for _, batch := range batches {
		if len(batch.Texts) > 2 {
			t.Fatalf("batch exceeded count budget: %+v", batch)
		}
		seen = append(seen, batch.Indices...)
	}
	if len(seen) != len(texts) {
		t.Fatalf("expected all %d texts accounted for, got %d", len(texts), len(seen))
	}
}

func TestBatcherSplitsOnTokenBudget(t *testing.T) {
	b := NewBatcher(&TokenEstimator{}, 100, 10)
	big := strings.Repeat("x", 40) // ~10 tokens via the 4-bytes-per-token fallback
	texts := []string{big, big, big}
	batches := b.Split(texts)
	if len(batches) < 2 {
		t.Fatalf("expected token budget to force multiple batches, got %d", len(batches))
	}
}

func TestBatcherPreservesOrderAcrossBatches(t *testing.T) {
	b := NewBatcher(&TokenEstimator{}, 1, 1_000_000)
	texts := []string{"one", "two", "three"}
	batches := b.Split(texts)
	if len(batches) != 3 {
		t.Fatalf("expected one batch per text, got %d", len(batches))
	}
	for i, batch := range batches {
		if batch.Indices[0] != i {
			t.Fatalf("batch %d has index %d, want %d", i, batch.Indices[0], i)
		}
	}
}

func TestMockProviderDeterministicAndNormalized(t *testing.T) {
	p := newMockProvider("test")
	out1, err := p.Embed(context.Background(), []string{"hello world"}, InputDocument)
	if err != nil {
		t.Fatal(err)
	}
	out2, err := p.Embed(context.Background(), []string{"hello world"}, InputQuery)
	if err != nil {
		t.Fatal(err)
	}
	if len(out1[0]) != p.Dim() {
		t.Fatalf("expected dim %d, got %d", p.Dim(), len(out1[0]))
	}
	for i := range out1[0] {
		if out1[0][i] != out2[0][i] {
			t.Fatal("mock embedding should be deterministic regardless of input type")
		}
	}
	var norm float64
	for _, v := range out1[0] {
		norm += float64(v) * float64(v)
	}
	if norm < 0.99 || norm > 1.01 {
		t.Fatalf("expected unit-normalized vector, got squared norm %f", norm)
	}
}
