// Package stats derives the admin summary from a leaderboard snapshot.
package stats

import (
	"time"

	"github.com/aesthetiq/beauty-battle/internal/domain/model"
)

// Summary holds the aggregate statistics shown on the admin page.
type Summary struct {
	// TotalUsers counts records, not distinct usernames: repeat
	// submissions by the same user each count.
	TotalUsers int `json:"totalUsers"`

	// AverageScore is the arithmetic mean over all records, 0 when empty.
	AverageScore float64 `json:"averageScore"`

	// HighestScore is the maximum score over all records, 0 when empty.
	HighestScore float64 `json:"highestScore"`

	// TodayUploads counts records created on the current calendar date
	// in the server's local time zone.
	TodayUploads int `json:"todayUploads"`
}

// Summarize computes the summary for a snapshot. It is a pure function of
// its inputs; now supplies the reference date for TodayUploads.
func Summarize(records []model.Record, now time.Time) Summary {
	s := Summary{TotalUsers: len(records)}
	if len(records) == 0 {
		return s
	}

	y, m, d := now.Date()
	var sum float64
	for _, r := range records {
		sum += r.Score
		if r.Score > s.HighestScore {
			s.HighestScore = r.Score
		}
		ry, rm, rd := r.CreatedAt.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			s.TodayUploads++
		}
	}
	s.AverageScore = sum / float64(len(records))
	return s
}
