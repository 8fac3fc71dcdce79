// Package llm provides a client for the Gemini-style text-generation API
// and helpers for extracting structured data from model output.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/config"
)

// Options controls a single generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client calls a generateContent endpoint. It is safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	httpc    *http.Client
	defaults Options
}

// New creates a Client from the LLM configuration section.
func New(cfg config.LLM) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		httpc:    &http.Client{},
		defaults: Options{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		},
	}
}

// Available reports whether the client is configured with an API key.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Wire types for the generateContent request/response.
type generateRequest struct {
	Contents         []content      `json:"contents"`
	GenerationConfig generateConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt to the model and returns the raw completion text.
// Zero-valued Options fields fall back to the configured defaults.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("llm: no API key configured")
	}

	if opts.Temperature == 0 {
		opts.Temperature = c.defaults.Temperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = c.defaults.MaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = c.defaults.Timeout
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generateConfig{
			Temperature:     opts.Temperature,
			TopP:            0.8,
			TopK:            40,
			MaxOutputTokens: opts.MaxTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("model", c.model).Msg("Generation request rejected")
		return "", fmt.Errorf("llm: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("llm: response contains no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
