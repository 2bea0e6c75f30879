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

package llmcap

import (
	"context"
	"fmt"

	"github.com/bysensa/octocode/pkg/llm"
)

// Capability is the interface GraphRAG depends on (spec §6: "an injected
// interface llm_complete(system, user, max_tokens) -> string"). GraphRAG is
// indifferent to the concrete provider behind it.
type Capability interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// providerCapability adapts an llm.Provider's multi-turn Chat into the
// single-shot Complete shape GraphRAG wants.
type providerCapability struct {
	provider llm.Provider
}

// FromProvider wraps an existing llm.Provider as a Capability.
func FromProvider(p llm.Provider) Capability {
	return providerCapability{provider: p}
}

// New builds a Capability from an llm.ProviderConfig (spec §6: "ollama",
// "openai", "anthropic", or "mock" — the teacher's own dispatch in
// pkg/llm/provider.go, reused as-is).
func New(cfg llm.ProviderConfig) (Capability, error) {
	p, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("llmcap: %w", err)
	}
	return FromProvider(p), nil
}

func (c providerCapability) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	messages := make([]llm.Message, 0, 2)
	if system != "" {
		messages = append(messages, llm.Message{Role: "system", Content: system})
	}
	messages = append(messages, llm.Message{Role: "user", Content: user})

	resp, err := c.provider.Chat(ctx, llm.ChatRequest{Messages: messages, MaxTokens: maxTokens})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
