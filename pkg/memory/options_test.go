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

package memory

import (
	"testing"

	"github.com/bysensa/octocode/pkg/model"
)

func TestFilterMatchesEmptyFilterMatchesEverything(t *testing.T) {
	m := model.Memory{MemoryType: model.MemoryBugFix, Tags: []string{"auth"}, RelatedFiles: []string{"a.go"}}
	if !(Filter{}).matches(m) {
		t.Fatal("expected an empty filter to match")
	}
}

func TestFilterMatchesByType(t *testing.T) {
	m := model.Memory{MemoryType: model.MemoryBugFix}
	if !(Filter{MemoryType: model.MemoryBugFix}).matches(m) {
		t.Fatal("expected type match")
	}
	if (Filter{MemoryType: model.MemoryFeature}).matches(m) {
		t.Fatal("expected type mismatch to exclude")
	}
}

func TestFilterMatchesByTagAndRelatedFile(t *testing.T) {
	m := model.Memory{Tags: []string{"auth", "security"}, RelatedFiles: []string{"pkg/auth/login.go"}}
	if !(Filter{Tag: "security"}).matches(m) {
		t.Fatal("expected tag match")
	}
	if (Filter{Tag: "missing"}).matches(m) {
		t.Fatal("expected tag mismatch to exclude")
	}
	if !(Filter{RelatedFile: "pkg/auth/login.go"}).matches(m) {
		t.Fatal("expected related file match")
	}
}

func TestRememberOptionsLimitDefault(t *testing.T) {
	if (RememberOptions{}).limit() != defaultLimit {
		t.Fatalf("expected default limit %d", defaultLimit)
	}
	if (RememberOptions{Limit: 7}).limit() != 7 {
		t.Fatal("expected explicit limit to be honored")
	}
}
