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

package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// InputType distinguishes documents being indexed from queries being
// embedded at search time; some providers require a different instruction
// prefix for each (spec §4.4: "providers MAY transparently prefix inputs
// with an input-type marker").
type InputType string

const (
	InputDocument InputType = "document"
	InputQuery    InputType = "query"
)

// Provider is the embedding capability's interface (spec §4.4). Results
// preserve batch order.
type Provider interface {
	Embed(ctx context.Context, batch []string, inputType InputType) ([][]float32, error)
	Dim() int
	ModelID() string
	MaxTokensPerRequest() int
}

// Parse resolves a "provider:model" string (e.g. "voyage:voyage-code-3")
// into a configured Provider. apiKey is looked up by the caller per spec
// §6's env-var-over-config-key precedence before Parse is called.
func Parse(spec, apiKey string, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	providerName, model, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("embedding: %q is not a provider:model spec", spec)
	}
	switch providerName {
	case "mock":
		return newMockProvider(model), nil
	case "voyage":
		return newVoyageProvider(model, apiKey, logger), nil
	case "jina":
		return newJinaProvider(model, apiKey, logger), nil
	case "google":
		return newGoogleProvider(model, apiKey, logger), nil
	case "fastembed":
		return newFastEmbedProvider(model, logger), nil
	case "huggingface":
		return newHuggingFaceProvider(model, apiKey, logger), nil
	default:
		return nil, fmt.Errorf("embedding: unknown provider %q", providerName)
	}
}

// normalize scales v to unit L2 norm in place-compatible fashion, returning
// a new slice. Mirrors ingestion's normalizeEmbedding for providers whose
// API doesn't already return unit vectors.
func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSquares))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
