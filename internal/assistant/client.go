// Package assistant wraps the hosted AI text-generation provider behind a
// single Generate seam, plus the prompt builders and the rule-driven
// workspace bot that use it.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrExternalService marks a provider call that failed or returned no usable
// content. It is informational: callers render a message in place of the
// generated text and no workspace state is touched.
var ErrExternalService = errors.New("text generation failed")

// ErrNoAPIKey is returned when no provider key has been configured.
var ErrNoAPIKey = errors.New("API key not configured; set one under Settings > APIs")

// Generator is the one contract the core has with the provider. Model
// selection and response parsing live behind it; implementations are
// replaceable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// KeySource yields the provider API key, typically a vault.Keyring.
type KeySource interface {
	LoadAPIKey() (string, bool, error)
}

// Client talks to a generateContent-style HTTP endpoint. Per the product's
// failure model there is no retry, no timeout of its own and no
// cancellation beyond the caller's context.
type Client struct {
	baseURL string
	model   string
	keys    KeySource
	httpc   *http.Client
}

func NewClient(baseURL, model string, keys KeySource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		keys:    keys,
		httpc:   http.DefaultClient,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	apiKey, ok, err := c.keys.LoadAPIKey()
	if err != nil {
		return "", err
	}
	if !ok || apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrExternalService, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrExternalService, decoded.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var out strings.Builder
	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			out.WriteString(p.Text)
		}
		break
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", ErrExternalService)
	}
	return out.String(), nil
}
