package langreg

import (
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestRegistryCoversSpecLanguages(t *testing.T) {
	r := New()
	for _, lang := range []string{
		"go", "python", "javascript", "typescript", "rust", "php", "cpp",
		"ruby", "json", "bash", "markdown", "css", "svelte",
	} {
		if _, ok := r.Get(lang); !ok {
			t.Fatalf("expected adapter for %q", lang)
		}
	}
}

func TestGoAdapterExtractsFunctionAndExport(t *testing.T) {
	r := New()
	a, ok := r.Get("go")
	if !ok {
		t.Fatal("missing go adapter")
	}
	src := []byte("package demo\n\nfunc Exported() int {\n\treturn 1\n}\n\nfunc unexported() {}\n")
	tree, err := a.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	exports := a.ExtractExports(tree, src)
	found := false
	for _, e := range exports {
		if e == "Exported" {
			found = true
		}
		if e == "unexported" {
			t.Fatalf("unexported should not be reported as an export")
		}
	}
	if !found {
		t.Fatalf("expected Exported in exports, got %v", exports)
	}
}

func TestSignatureTruncatesAndElides(t *testing.T) {
	r := New()
	a, _ := r.Get("go")
	src := []byte("package demo\n\nfunc Big() {\n\tline1()\n\tline2()\n\tline3()\n\tline4()\n\tline5()\n\tline6()\n}\n")
	tree, err := a.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	kinds := a.MeaningfulKinds()
	fn := findFirst(tree.RootNode(), kinds)
	if fn == nil {
		t.Fatal("no meaningful-kind node found")
	}
	sig := a.Signature(fn, src)
	if !strings.HasPrefix(sig, "func Big()") {
		t.Fatalf("unexpected signature: %q", sig)
	}
}

func TestNoGrammarAdapterDegradesCleanly(t *testing.T) {
	r := New()
	a, ok := r.Get("markdown")
	if !ok {
		t.Fatal("missing markdown adapter")
	}
	if a.HasGrammar() {
		t.Fatal("markdown should report no grammar")
	}
	if len(a.MeaningfulKinds()) != 0 {
		t.Fatal("expected empty meaningful kinds for a no-grammar adapter")
	}
	if _, err := a.Parse([]byte("# hi")); err == nil {
		t.Fatal("expected Parse to fail for a no-grammar adapter")
	}
}

func findFirst(n *sitter.Node, kinds map[string]bool) *sitter.Node {
	if n == nil {
		return nil
	}
	if kinds[n.Type()] {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := findFirst(n.Child(i), kinds); found != nil {
			return found
		}
	}
	return nil
}
