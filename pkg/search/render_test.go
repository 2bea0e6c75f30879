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

package search

import (
	"strings"
	"testing"

	"github.com/bysensa/octocode/pkg/model"
)

func TestSignatureOfTruncatesAtBrace(t *testing.T) {
	content := "func Foo(a, b int) int {\n\treturn a + b\n}"
	sig := signatureOf(content)
	if strings.Contains(sig, "return") {
		t.Fatalf("signature should stop at the body, got %q", sig)
	}
	if !strings.HasPrefix(sig, "func Foo") {
		t.Fatalf("expected header, got %q", sig)
	}
}

func TestSignatureOfElidesLongHeaders(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("line\n")
	}
	b.WriteString("{\nbody\n}")
	sig := signatureOf(b.String())
	if !strings.HasSuffix(sig, "...") {
		t.Fatalf("expected ellipsis for a long header, got %q", sig)
	}
	if len(strings.Split(sig, "\n")) != maxSignatureLines {
		t.Fatalf("expected %d lines including the ellipsis, got %q", maxSignatureLines, sig)
	}
}

func TestPartialOfKeepsFirstAndLastTwoLines(t *testing.T) {
	content := "l1\nl2\nl3\nl4\nl5\nl6\nl7"
	got := partialOf(content)
	want := "l1\nl2\n...\nl6\nl7"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestPartialOfReturnsVerbatimWhenShort(t *testing.T) {
	content := "l1\nl2\nl3"
	if got := partialOf(content); got != content {
		t.Fatalf("expected verbatim content for <= 5 lines, got %q", got)
	}
}

func TestTruncateToBudgetKeepsAtLeastOneResult(t *testing.T) {
	resp := &Response{Results: []Result{
		{Block: model.Block{Path: "a.go"}, Rendered: strings.Repeat("x", 10000)},
		{Block: model.Block{Path: "b.go"}, Rendered: "short"},
	}}
	truncated := truncateToBudget(resp, 1)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected the top result to survive alone, got %d", len(resp.Results))
	}
}

func TestTruncateToBudgetNoopWhenEverythingFits(t *testing.T) {
	resp := &Response{Results: []Result{
		{Block: model.Block{Path: "a.go"}, Rendered: "short"},
		{Block: model.Block{Path: "b.go"}, Rendered: "also short"},
	}}
	truncated := truncateToBudget(resp, 1_000_000)
	if truncated {
		t.Fatal("expected no truncation when the budget is generous")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected both results kept, got %d", len(resp.Results))
	}
}

func TestKindPriorityOrdersCodeBeforeDocBeforeText(t *testing.T) {
	if kindPriority(model.KindCode) >= kindPriority(model.KindDoc) {
		t.Fatal("code should sort before doc")
	}
	if kindPriority(model.KindDoc) >= kindPriority(model.KindText) {
		t.Fatal("doc should sort before text")
	}
}
