package scorer

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the HTTPScorer.
type Option func(*HTTPScorer)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPScorer) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each scoring call.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}
