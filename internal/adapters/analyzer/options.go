package analyzer

import (
	"net/http"
	"strings"
	"time"
)

// Option applies a configuration option to the GeminiClient.
type Option func(*GeminiClient)

// WithEndpoint overrides the API base URL. Tests point this at a local
// fake server.
func WithEndpoint(endpoint string) Option {
	return func(c *GeminiClient) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithModel selects the generative model.
func WithModel(model string) Option {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeminiClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout bounds each analysis call.
func WithTimeout(d time.Duration) Option {
	return func(c *GeminiClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}
