package ids

import "testing"

func TestBlockIDDeterministic(t *testing.T) {
	a := BlockID("src/lib.rs", "code", 1, 1, "pub fn add(a: i32, b: i32) -> i32 { a + b }")
	b := BlockID("src/lib.rs", "code", 1, 1, "pub fn add(a: i32, b: i32) -> i32 { a + b }")
	if a != b {
		t.Fatalf("expected identical ids, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestBlockIDChangesWithContent(t *testing.T) {
	a := BlockID("src/lib.rs", "code", 1, 1, "pub fn add(a: i32, b: i32) -> i32 { a + b }")
	b := BlockID("src/lib.rs", "code", 1, 1, "pub fn add(a: i64, b: i64) -> i64 { a + b }")
	if a == b {
		t.Fatal("expected different ids for different content")
	}
}

func TestBlockIDDelimitersPreventCollision(t *testing.T) {
	// "ab" / "c" must not collide with "a" / "bc" across the path|kind boundary.
	a := BlockID("ab", "c", 1, 1, "x")
	b := BlockID("a", "bc", 1, 1, "x")
	if a == b {
		t.Fatal("expected delimiter-separated fields to prevent collision")
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"./src/lib.rs":  "src/lib.rs",
		"/src/lib.rs":   "src/lib.rs",
		"src//lib.rs":   "src/lib.rs",
		"src/./lib.rs":  "src/lib.rs",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFileIDNodeIDAgree(t *testing.T) {
	if FileID("./a/b.go") != NodeID("a/b.go") {
		t.Fatal("FileID and NodeID must normalize identically")
	}
}
