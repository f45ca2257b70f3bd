// Package scorer is the client for the external beauty-scoring service.
// It forwards only the image, never the caller's identity.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aesthetiq/beauty-battle/pkg/metrics"
)

// Default client configuration.
const (
	defaultTimeout = 30 * time.Second

	// maxErrorBodyBytes bounds how much of an upstream error body is
	// carried into the returned error.
	maxErrorBodyBytes = 512
)

// Client scores an image and returns the raw, un-normalized value
// reported by the external model.
type Client interface {
	Score(ctx context.Context, imagePath string) (float64, error)
}

// HTTPScorer implements Client against an HTTP inference endpoint that
// accepts a multipart "file" field and answers {"beauty_score": ...}.
type HTTPScorer struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPScorer creates a scorer client for the given predict URL.
func NewHTTPScorer(url string, opts ...Option) *HTTPScorer {
	s := &HTTPScorer{
		url:     url,
		client:  &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scoreResponse mirrors the inference endpoint's reply. The score field is
// untyped because the upstream has been observed to send both numbers and
// numeric strings.
type scoreResponse struct {
	BeautyScore any `json:"beauty_score"`
}

// Score posts the image at imagePath and returns the raw score.
// The call is bounded by the configured timeout so a slow upstream cannot
// hold the caller's temporary file indefinitely.
func (s *HTTPScorer) Score(ctx context.Context, imagePath string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, contentType, err := buildForm(imagePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.ObserveUpstreamLatency("scorer", float64(time.Since(start).Milliseconds()))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return 0, fmt.Errorf("%w: status %d: %s", ErrBadStatus, resp.StatusCode, detail)
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedScore, err)
	}
	return parseRawScore(sr.BeautyScore)
}

// buildForm reads the spooled image into a multipart body with the single
// "file" field. Uploads are capped at 5MB before they reach this point, so
// buffering in memory is acceptable.
func buildForm(imagePath string) (io.Reader, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// parseRawScore converts the upstream value to a finite float64.
// A value that cannot be parsed is a distinguishable failure, never a
// default: silently substituting a score would corrupt the leaderboard.
func parseRawScore(v any) (float64, error) {
	var (
		score float64
		err   error
	)
	switch t := v.(type) {
	case float64:
		score = t
	case string:
		score, err = strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedScore, t)
		}
	case json.Number:
		score, err = t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedScore, t.String())
		}
	default:
		return 0, fmt.Errorf("%w: unexpected type %T", ErrMalformedScore, v)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite value", ErrMalformedScore)
	}
	return score, nil
}
