package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aesthetiq/beauty-battle/internal/domain/model"
)

// MemStore keeps records in process memory. It backs tests and the
// zero-dependency dev mode. Reads never block each other; records are
// immutable once appended so readers always observe complete rows.
type MemStore struct {
	mu      sync.RWMutex
	records []model.Record
	nextID  int64

	clock func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(_ context.Context, opts ...MemOption) *MemStore {
	s := &MemStore{
		nextID: 1,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a new record stamped with the store clock.
func (s *MemStore) Create(_ context.Context, username string, score float64) (model.Record, error) {
	if err := validate(username, score); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.Record{
		ID:        s.nextID,
		Username:  username,
		Score:     score,
		CreatedAt: s.clock(),
	}
	s.nextID++
	s.records = append(s.records, rec)
	return rec, nil
}

// FindAll returns all records ordered by (score desc, createdAt desc).
func (s *MemStore) FindAll(_ context.Context) ([]model.Record, error) {
	s.mu.RLock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sortLeaderboard(out)
	return out, nil
}

// FindTop returns the leaderboard prefix of at most limit records.
func (s *MemStore) FindTop(ctx context.Context, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > len(all) {
		limit = len(all)
	}
	return all[:limit], nil
}

// FindByUser returns the user's records ordered by createdAt desc.
func (s *MemStore) FindByUser(_ context.Context, username string) ([]model.Record, error) {
	s.mu.RLock()
	var out []model.Record
	for _, r := range s.records {
		if r.Username == username {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Count returns the number of stored records.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// sortLeaderboard orders records by score desc, then createdAt desc.
// Records created in the same instant fall back to insertion recency.
func sortLeaderboard(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
}
