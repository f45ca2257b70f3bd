// Package analyzer is the client for the generative-AI styling service.
// The response format of the upstream API varies; extractText is the one
// place that knows about its shapes and returns plain text to the rest of
// the system.
package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aesthetiq/beauty-battle/pkg/metrics"
)

// Default client configuration.
const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel    = "gemini-2.5-flash"
	defaultTimeout  = 60 * time.Second

	maxErrorBodyBytes = 512
)

// fallbackText is returned when the upstream answers successfully but
// produces no extractable text.
const fallbackText = "No insights found."

// stylingPrompt asks for the short, constructive suggestions shown under
// the score card.
const stylingPrompt = `Analyze this photo in a summary and provide beauty enhancement suggestions under 100 words. Focus on:
    1. Skincare recommendations
    2. Makeup tips
    3. Hairstyle suggestions
    4. Photography/lighting tips
    5. Overall styling advice

    Please be positive, constructive, and encouraging. Provide specific, actionable advice.`

// Client produces free-text styling suggestions for an image.
type Client interface {
	Analyze(ctx context.Context, imagePath, mimeType string) (string, error)
}

// GeminiClient implements Client against the Gemini generateContent REST API.
type GeminiClient struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	timeout  time.Duration
}

// NewGeminiClient creates an analyzer client. The API key is required;
// calls without one fail with ErrNotConfigured.
func NewGeminiClient(apiKey string, opts ...Option) *GeminiClient {
	c := &GeminiClient{
		endpoint: defaultEndpoint,
		model:    defaultModel,
		apiKey:   apiKey,
		client:   &http.Client{},
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request/response shapes for generateContent. Only the fields this
// adapter reads are declared.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze sends the image with the styling prompt and returns the
// suggestions text.
func (c *GeminiClient) Analyze(ctx context.Context, imagePath, mimeType string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: stylingPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(raw),
				}},
			},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveUpstreamLatency("analyzer", float64(time.Since(start).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("%w: status %d: %s", ErrBadStatus, resp.StatusCode, detail)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadStatus, err)
	}
	return extractText(gr), nil
}

// extractText flattens the candidate parts into one string. An empty
// result maps to the fallback text rather than an error: the upstream
// answered, it just had nothing to say.
func extractText(gr generateResponse) string {
	var parts []string
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return fallbackText
	}
	return text
}
