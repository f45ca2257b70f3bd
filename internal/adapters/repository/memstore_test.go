package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// testClock hands out strictly increasing timestamps.
func testClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func TestMemStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	rec, err := store.Create(ctx, "ana", 4.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected record to be assigned an id")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected record to be stamped with a creation time")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	all, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 || all[0].Username != "ana" || all[0].Score != 4.2 {
		t.Errorf("unexpected records: %+v", all)
	}
}

func TestMemStore_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	tests := []struct {
		name     string
		username string
		score    float64
	}{
		{"empty username", "", 3.0},
		{"whitespace username", "   ", 3.0},
		{"username too long", strings.Repeat("x", 51), 3.0},
		{"score below range", "ana", 0.9},
		{"score above range", "ana", 5.1},
		{"nan score", "ana", math.NaN()},
		{"inf score", "ana", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.username, tt.score)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if count := store.Count(ctx); count != 0 {
		t.Errorf("rejected writes must not persist, got count %d", count)
	}
}

func TestMemStore_LeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx, WithClock(testClock(time.Now())))

	// Two equal scores created in order, then a lower one.
	for _, c := range []struct {
		username string
		score    float64
	}{
		{"first", 4.9},
		{"second", 4.9},
		{"third", 3.0},
	} {
		if _, err := store.Create(ctx, c.username, c.score); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	// Ties broken by recency: the later 4.9 comes first.
	if all[0].Username != "second" || all[1].Username != "first" || all[2].Username != "third" {
		t.Errorf("unexpected order: %s, %s, %s", all[0].Username, all[1].Username, all[2].Username)
	}

	for i := 1; i < len(all); i++ {
		a, b := all[i-1], all[i]
		if a.Score < b.Score {
			t.Errorf("records out of score order at %d: %f < %f", i, a.Score, b.Score)
		}
		if a.Score == b.Score && a.CreatedAt.Before(b.CreatedAt) {
			t.Errorf("tie at %d not broken by recency", i)
		}
	}
}

func TestMemStore_FindTopIsPrefixOfFindAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx, WithClock(testClock(time.Now())))

	faker := gofakeit.New(7)
	for i := 0; i < 30; i++ {
		username := faker.Username()
		score := faker.Float64Range(1, 5)
		if _, err := store.Create(ctx, username, score); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, limit := range []int{1, 5, 10, 30, 100} {
		top, err := store.FindTop(ctx, limit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := limit
		if want > len(all) {
			want = len(all)
		}
		if len(top) != want {
			t.Errorf("FindTop(%d): expected %d records, got %d", limit, want, len(top))
		}
		for i := range top {
			if top[i] != all[i] {
				t.Errorf("FindTop(%d) is not a prefix of FindAll at %d", limit, i)
			}
		}
	}

	// Non-positive limits fall back to the default.
	top, err := store.FindTop(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != DefaultTopLimit {
		t.Errorf("expected default limit %d, got %d", DefaultTopLimit, len(top))
	}
}

func TestMemStore_FindByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx, WithClock(testClock(time.Now())))

	for _, c := range []struct {
		username string
		score    float64
	}{
		{"Sam", 2.0},
		{"sam", 3.0},
		{"Sam", 4.0},
		{"ana", 5.0},
	} {
		if _, err := store.Create(ctx, c.username, c.score); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.FindByUser(ctx, "Sam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Exact, case-sensitive match: "sam" is a different user.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Most recent first.
	if records[0].Score != 4.0 || records[1].Score != 2.0 {
		t.Errorf("unexpected history order: %+v", records)
	}

	none, err := store.FindByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no records, got %d", len(none))
	}
}

func TestMemStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := store.Create(ctx, "writer", 3.3); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if _, err := store.FindAll(ctx); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if count := store.Count(ctx); count != writers*perWriter {
		t.Errorf("expected %d records, got %d", writers*perWriter, count)
	}
}
