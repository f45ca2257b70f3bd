// Package service orchestrates score ingestion and the leaderboard read
// views behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aesthetiq/beauty-battle/internal/adapters/analyzer"
	"github.com/aesthetiq/beauty-battle/internal/adapters/repository"
	"github.com/aesthetiq/beauty-battle/internal/adapters/scorer"
	"github.com/aesthetiq/beauty-battle/internal/domain/model"
	"github.com/aesthetiq/beauty-battle/internal/domain/normalize"
	"github.com/aesthetiq/beauty-battle/internal/domain/stats"
	"github.com/aesthetiq/beauty-battle/pkg/logger"
	"github.com/aesthetiq/beauty-battle/pkg/metrics"
)

// Default read-view limits.
const (
	defaultTopLimit = 10
	defaultMaxLimit = 100
)

// Upload describes an image spooled to disk for the duration of one call.
// The file at Path is owned by that call and removed on every exit path.
type Upload struct {
	Path     string
	Size     int64
	MIMEType string
	Username string
}

// Service implements the API dependencies.
type Service struct {
	store    repository.Store
	scorer   scorer.Client
	analyzer analyzer.Client

	topLimit int
	maxLimit int

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScorer sets the external beauty-scorer client.
func WithScorer(c scorer.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.scorer = c
		}
	}
}

// WithAnalyzer sets the styling analyzer client.
func WithAnalyzer(c analyzer.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.analyzer = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTopLimits sets the default and maximum leaderboard limits.
func WithTopLimits(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.topLimit = def
		}
		if max > 0 {
			s.maxLimit = max
		}
	}
}

// New constructs a Service over the given store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		topLimit: defaultTopLimit,
		maxLimit: defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Submit runs one end-to-end prediction: validate, score externally,
// normalize, persist, return the normalized score. The spooled image is
// removed whichever way the call exits.
func (s *Service) Submit(ctx context.Context, up Upload) (float64, error) {
	defer s.release(ctx, up.Path)

	username := strings.TrimSpace(up.Username)
	if err := validateUpload(up, username); err != nil {
		metrics.RecordPrediction(metrics.OutcomeInvalidInput)
		return 0, err
	}

	// Only the image goes upstream. The scorer never learns who it is
	// scoring.
	raw, err := s.scorer.Score(ctx, up.Path)
	if err != nil {
		metrics.RecordPrediction(metrics.OutcomeUpstream)
		s.log.Warn(ctx, "scoring call failed", logger.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	score, direction := normalize.Clamp(raw)
	if direction != normalize.ClampNone {
		metrics.RecordScoreClamp(direction)
		s.log.Info(ctx, "clamped out-of-range score",
			logger.Float64("raw", raw),
			logger.Float64("score", score),
		)
	}

	rec, err := s.store.Create(ctx, username, score)
	if err != nil {
		metrics.RecordPrediction(metrics.OutcomeStorage)
		if errors.Is(err, repository.ErrValidation) {
			// The store's defensive re-check tripped after ingestion
			// normalized the input; that is a bug, not a user fault.
			return 0, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.RecordPrediction(metrics.OutcomeAccepted)
	metrics.UpdateStoredScores(s.store.Count(ctx))
	s.log.Info(ctx, "saved score",
		logger.String("username", rec.Username),
		logger.Float64("score", rec.Score),
	)
	return score, nil
}

// Analyze returns styling suggestions for the image. Nothing is scored or
// persisted; the spooled image is removed whichever way the call exits.
func (s *Service) Analyze(ctx context.Context, up Upload) (string, error) {
	defer s.release(ctx, up.Path)

	if up.Path == "" || up.Size <= 0 {
		metrics.RecordAnalysis(metrics.OutcomeInvalidInput)
		return "", fmt.Errorf("%w: no image file provided", ErrInvalidInput)
	}
	if !isImageMIME(up.MIMEType) {
		metrics.RecordAnalysis(metrics.OutcomeInvalidInput)
		return "", fmt.Errorf("%w: only image files are allowed", ErrInvalidInput)
	}

	suggestions, err := s.analyzer.Analyze(ctx, up.Path, up.MIMEType)
	if err != nil {
		metrics.RecordAnalysis(metrics.OutcomeUpstream)
		s.log.Warn(ctx, "analysis call failed", logger.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	metrics.RecordAnalysis(metrics.OutcomeAccepted)
	return suggestions, nil
}

// Leaderboard returns all records ordered by (score desc, createdAt desc).
func (s *Service) Leaderboard(ctx context.Context) ([]model.Record, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}

// TopScores returns the leaderboard prefix. A non-positive limit falls
// back to the default; oversized limits are capped.
func (s *Service) TopScores(ctx context.Context, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = s.topLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	records, err := s.store.FindTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}

// UserHistory returns the user's records, most recent first.
func (s *Service) UserHistory(ctx context.Context, username string) ([]model.Record, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	records, err := s.store.FindByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return records, nil
}

// Summary recomputes the admin statistics from the current snapshot.
func (s *Service) Summary(ctx context.Context) (stats.Summary, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return stats.Summarize(records, time.Now()), nil
}

// Count returns the number of stored records, for the metrics updater.
func (s *Service) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// release deletes a spooled upload. Missing files are fine: the handler
// may already have cleaned up on an early exit.
func (s *Service) release(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn(ctx, "failed to remove spooled upload",
			logger.String("path", path),
			logger.Error(err),
		)
	}
}

func validateUpload(up Upload, username string) error {
	switch {
	case up.Path == "" || up.Size <= 0:
		return fmt.Errorf("%w: no image file provided", ErrInvalidInput)
	case !isImageMIME(up.MIMEType):
		return fmt.Errorf("%w: only image files are allowed", ErrInvalidInput)
	case username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	case len(username) > model.MaxUsernameLength:
		return fmt.Errorf("%w: username longer than %d characters", ErrInvalidInput, model.MaxUsernameLength)
	}
	return nil
}

func isImageMIME(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
