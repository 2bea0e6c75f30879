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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const httpProviderTimeout = 60 * time.Second

// voyageProvider calls Voyage AI's /v1/embeddings endpoint. Voyage exposes
// both a "document" and "query" input_type natively, so no manual prefixing
// is needed.
type voyageProvider struct {
	model      string
	apiKey     string
	dim        int
	httpClient *http.Client
	logger     *slog.Logger
}

func newVoyageProvider(model, apiKey string, logger *slog.Logger) *voyageProvider {
	return &voyageProvider{
		model:      model,
		apiKey:     apiKey,
		dim:        voyageDim(model),
		httpClient: &http.Client{Timeout: httpProviderTimeout},
		logger:     logger,
	}
}

func voyageDim(model string) int {
	switch model {
	case "voyage-code-3", "voyage-3":
		return 1024
	case "voyage-3-lite":
		return 512
	default:
		return 1024
	}
}

type voyageRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type voyageResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *voyageProvider) Embed(ctx context.Context, batch []string, inputType InputType) ([][]float32, error) {
	body, err := json.Marshal(voyageRequest{Input: batch, Model: p.model, InputType: string(inputType)})
	if err != nil {
		return nil, fmt.Errorf("voyage: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.voyageai.com/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("voyage: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voyage: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voyage: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyage: api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	var parsed voyageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("voyage: parse response: %w", err)
	}
	out := make([][]float32, len(batch))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		out[d.Index] = normalize(d.Embedding)
	}
	return out, nil
}

func (p *voyageProvider) Dim() int                 { return p.dim }
func (p *voyageProvider) ModelID() string          { return "voyage:" + p.model }
func (p *voyageProvider) MaxTokensPerRequest() int { return 120_000 }

// jinaProvider calls Jina AI's /v1/embeddings endpoint, which shares
// OpenAI's request/response shape plus a `task` field for asymmetric
// document/query embedding.
type jinaProvider struct {
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func newJinaProvider(model, apiKey string, logger *slog.Logger) *jinaProvider {
	return &jinaProvider{model: model, apiKey: apiKey, httpClient: &http.Client{Timeout: httpProviderTimeout}, logger: logger}
}

type jinaRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
	Task  string   `json:"task,omitempty"`
}

type jinaResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *jinaProvider) Embed(ctx context.Context, batch []string, inputType InputType) ([][]float32, error) {
	task := "retrieval.passage"
	if inputType == InputQuery {
		task = "retrieval.query"
	}
	body, err := json.Marshal(jinaRequest{Input: batch, Model: p.model, Task: task})
	if err != nil {
		return nil, fmt.Errorf("jina: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.jina.ai/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jina: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jina: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jina: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina: api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	var parsed jinaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("jina: parse response: %w", err)
	}
	out := make([][]float32, len(batch))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		out[d.Index] = normalize(d.Embedding)
	}
	return out, nil
}

func (p *jinaProvider) Dim() int                 { return 1024 }
func (p *jinaProvider) ModelID() string          { return "jina:" + p.model }
func (p *jinaProvider) MaxTokensPerRequest() int { return 8_192 }

// googleProvider calls Google's Generative Language API batchEmbedContents
// endpoint.
type googleProvider struct {
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func newGoogleProvider(model, apiKey string, logger *slog.Logger) *googleProvider {
	return &googleProvider{model: model, apiKey: apiKey, httpClient: &http.Client{Timeout: httpProviderTimeout}, logger: logger}
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleEmbedRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	TaskType string `json:"taskType,omitempty"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (p *googleProvider) Embed(ctx context.Context, batch []string, inputType InputType) ([][]float32, error) {
	taskType := "RETRIEVAL_DOCUMENT"
	if inputType == InputQuery {
		taskType = "RETRIEVAL_QUERY"
	}
	reqs := make([]googleEmbedRequest, len(batch))
	for i, text := range batch {
		reqs[i].Model = "models/" + p.model
		reqs[i].TaskType = taskType
		reqs[i].Content.Parts = []struct {
			Text string `json:"text"`
		}{{Text: text}}
	}
	body, err := json.Marshal(googleBatchRequest{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("google: marshal request: %w", err)
	}
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:batchEmbedContents?key=%s", p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("google: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	var parsed googleBatchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("google: parse response: %w", err)
	}
	if len(parsed.Embeddings) != len(batch) {
		return nil, fmt.Errorf("google: expected %d embeddings, got %d", len(batch), len(parsed.Embeddings))
	}
	out := make([][]float32, len(batch))
	for i, e := range parsed.Embeddings {
		out[i] = normalize(e.Values)
	}
	return out, nil
}

func (p *googleProvider) Dim() int                 { return 768 }
func (p *googleProvider) ModelID() string          { return "google:" + p.model }
func (p *googleProvider) MaxTokensPerRequest() int { return 20_000 }

// fastEmbedProvider talks to a local FastEmbed server (no API key — it's
// a self-hosted ONNX runtime exposing an OpenAI-shaped /embeddings route).
type fastEmbedProvider struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newFastEmbedProvider(model string, logger *slog.Logger) *fastEmbedProvider {
	return &fastEmbedProvider{model: model, baseURL: "http://localhost:8001", httpClient: &http.Client{Timeout: httpProviderTimeout}, logger: logger}
}

type fastEmbedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type fastEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (p *fastEmbedProvider) Embed(ctx context.Context, batch []string, _ InputType) ([][]float32, error) {
	body, err := json.Marshal(fastEmbedRequest{Input: batch, Model: p.model})
	if err != nil {
		return nil, fmt.Errorf("fastembed: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fastembed: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fastembed: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fastembed: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fastembed: api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	var parsed fastEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("fastembed: parse response: %w", err)
	}
	out := make([][]float32, len(batch))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		out[d.Index] = normalize(d.Embedding)
	}
	return out, nil
}

func (p *fastEmbedProvider) Dim() int                 { return 384 }
func (p *fastEmbedProvider) ModelID() string          { return "fastembed:" + p.model }
func (p *fastEmbedProvider) MaxTokensPerRequest() int { return 8_192 }

// huggingFaceProvider calls the Hugging Face Inference API's
// feature-extraction pipeline.
type huggingFaceProvider struct {
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func newHuggingFaceProvider(model, apiKey string, logger *slog.Logger) *huggingFaceProvider {
	return &huggingFaceProvider{model: model, apiKey: apiKey, httpClient: &http.Client{Timeout: httpProviderTimeout}, logger: logger}
}

type huggingFaceRequest struct {
	Inputs  []string `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

func (p *huggingFaceProvider) Embed(ctx context.Context, batch []string, _ InputType) ([][]float32, error) {
	reqBody := huggingFaceRequest{Inputs: batch}
	reqBody.Options.WaitForModel = true
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("huggingface: marshal request: %w", err)
	}
	url := "https://api-inference.huggingface.co/pipeline/feature-extraction/" + p.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("huggingface: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("huggingface: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface: api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	var parsed [][]float32
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("huggingface: parse response: %w", err)
	}
	out := make([][]float32, len(parsed))
	for i, v := range parsed {
		out[i] = normalize(v)
	}
	return out, nil
}

func (p *huggingFaceProvider) Dim() int                 { return 384 }
func (p *huggingFaceProvider) ModelID() string          { return "huggingface:" + p.model }
func (p *huggingFaceProvider) MaxTokensPerRequest() int { return 8_192 }
