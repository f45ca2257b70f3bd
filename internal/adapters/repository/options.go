package repository

import "time"

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithClock overrides the timestamp source. Tests use this to create
// records with controlled creation times.
func WithClock(clock func() time.Time) MemOption {
	return func(s *MemStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}
