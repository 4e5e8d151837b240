// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package copywriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bes2/outreach-engine/internal/httputil"
	"github.com/bes2/outreach-engine/pkg/types"
)

// apiBase is a variable so tests can point the client at a local server.
var apiBase = "https://generativelanguage.googleapis.com/v1beta"

const (
	defaultModel      = "gemini-1.5-flash"
	defaultMaxRetries = 3
)

// Gemini generates text through the generateContent JSON API.
type Gemini struct {
	Client     *http.Client
	APIKey     string
	Model      string
	MaxRetries int
}

// NewGemini builds a client from configuration. Zero values get defaults.
func NewGemini(cfg types.GenerationConfig) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Gemini{
		Client:     &http.Client{Timeout: 60 * time.Second},
		APIKey:     cfg.APIKey,
		Model:      model,
		MaxRetries: maxRetries,
	}
}

// generateContent API wire structures.
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
}

// Generate sends one prompt and returns the first candidate's text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", apiBase, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(g.Client, req, g.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation API returned HTTP %d: %s", resp.StatusCode, data)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parsing generation response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response carried no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
