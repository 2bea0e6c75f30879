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

package watch

import (
	"testing"
	"time"
)

func TestDebounceWindowDefaultsAndClamps(t *testing.T) {
	if got := (Config{}).debounceWindow(); got != defaultDebounceWindow {
		t.Fatalf("got %v, want default %v", got, defaultDebounceWindow)
	}
	if got := (Config{DebounceWindow: 500 * time.Millisecond}).debounceWindow(); got != minDebounceWindow {
		t.Fatalf("expected clamp to min, got %v", got)
	}
	if got := (Config{DebounceWindow: time.Minute}).debounceWindow(); got != maxDebounceWindow {
		t.Fatalf("expected clamp to max, got %v", got)
	}
	if got := (Config{DebounceWindow: 5 * time.Second}).debounceWindow(); got != 5*time.Second {
		t.Fatalf("expected in-range value to pass through unclamped, got %v", got)
	}
}

func TestSettleDelayDefaultsAndClamps(t *testing.T) {
	if got := (Config{}).settleDelay(); got != defaultSettleDelay {
		t.Fatalf("got %v, want default %v", got, defaultSettleDelay)
	}
	if got := (Config{SettleDelay: 10 * time.Second}).settleDelay(); got != maxSettleDelay {
		t.Fatalf("expected clamp to max, got %v", got)
	}
	if got := (Config{SettleDelay: 250 * time.Millisecond}).settleDelay(); got != 250*time.Millisecond {
		t.Fatalf("expected in-range value to pass through unclamped, got %v", got)
	}
}
