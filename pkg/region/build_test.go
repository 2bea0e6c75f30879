package region

import (
	"strings"
	"testing"

	"github.com/bysensa/octocode/pkg/langreg"
	"github.com/bysensa/octocode/pkg/model"
)

func TestBuildGoSourceProducesCodeBlocks(t *testing.T) {
	r := langreg.New()
	a, _ := r.Get("go")
	src := []byte("package demo\n\nfunc One() int {\n\treturn 1\n}\n\nfunc Two() int {\n\treturn 2\n}\n")
	blocks := Build("demo.go", "go", src, a, Options{})
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	for _, b := range blocks {
		if b.Kind != model.KindCode {
			t.Fatalf("expected KindCode, got %v", b.Kind)
		}
		if b.Path != "demo.go" {
			t.Fatalf("unexpected path: %s", b.Path)
		}
	}
}

func TestBuildUnknownLanguageWholeFile(t *testing.T) {
	blocks := Build("data.bin", "", []byte("some opaque content\nline two\n"), nil, Options{})
	if len(blocks) != 1 || blocks[0].Kind != model.KindText {
		t.Fatalf("expected a single text block, got %v", blocks)
	}
}

func TestBuildMarkdownProducesDocBlocks(t *testing.T) {
	md := "# Title\n\nIntro text.\n\n## Section A\n\n" + strings.Repeat("word ", 100) + "\n\n## B\n\nshort\n"
	blocks := Build("README.md", "markdown", []byte(md), nil, Options{})
	if len(blocks) == 0 {
		t.Fatal("expected at least one doc block")
	}
	for _, b := range blocks {
		if b.Kind != model.KindDoc {
			t.Fatalf("expected KindDoc, got %v", b.Kind)
		}
	}
	// "## B" is short and must have been merged into a neighbor rather
	// than standing alone under the 200-char minimum.
	for _, b := range blocks {
		if strings.TrimSpace(b.Content) == "## B\n\nshort" {
			t.Fatal("tiny trailing section should have been merged up")
		}
	}
}

func TestBuildJSONProducesKeyBlocks(t *testing.T) {
	src := []byte("{\n  \"name\": \"demo\",\n  \"version\": \"1.0\",\n  \"nested\": {\n    \"a\": 1\n  }\n}\n")
	blocks := Build("package.json", "json", src, nil, Options{})
	if len(blocks) != 3 {
		t.Fatalf("expected 3 top-level key blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Symbols[0] != "name" || blocks[1].Symbols[0] != "version" || blocks[2].Symbols[0] != "nested" {
		t.Fatalf("unexpected key order: %v %v %v", blocks[0].Symbols, blocks[1].Symbols, blocks[2].Symbols)
	}
}

func TestBuildJSONArrayRootWholeFile(t *testing.T) {
	blocks := Build("list.json", "json", []byte("[1, 2, 3]\n"), nil, Options{})
	if len(blocks) != 1 || blocks[0].Kind != model.KindText {
		t.Fatalf("expected whole-file fallback for a JSON array root, got %v", blocks)
	}
}

func TestSplitHugeRegionCoversOriginalRange(t *testing.T) {
	lines := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		lines = append(lines, strings.Repeat("x", 40))
	}
	c := candidate{kindTag: "function_declaration", startLine: 1, endLine: 200}
	opts := ResolveOptions(Options{})
	pieces := splitHugeRegion(c, lines, opts)
	if len(pieces) < 2 {
		t.Fatalf("expected region to split, got %d piece(s)", len(pieces))
	}
	if pieces[0].startLine != 1 {
		t.Fatalf("expected first piece to start at line 1, got %d", pieces[0].startLine)
	}
	if pieces[len(pieces)-1].endLine != 200 {
		t.Fatalf("expected last piece to end at line 200, got %d", pieces[len(pieces)-1].endLine)
	}
	for i := 1; i < len(pieces); i++ {
		if pieces[i].startLine > pieces[i-1].endLine+1 {
			t.Fatalf("gap between piece %d and %d", i-1, i)
		}
	}
}
