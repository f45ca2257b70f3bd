package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/aesthetiq/beauty-battle/internal/domain/model"
)

// scoreRow is the bun mapping for the scores table.
type scoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Username  string    `bun:"username,notnull"`
	Score     float64   `bun:"score,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func (r scoreRow) record() model.Record {
	return model.Record{
		ID:        r.ID,
		Username:  r.Username,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}

// PGStore persists records in Postgres through bun.
type PGStore struct {
	db *bun.DB
}

// NewPGStore connects to Postgres, verifies the connection, and ensures
// the scores table and its two query indexes exist.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("%w: ping failed: %v", ErrStorage, err)
	}

	s := &PGStore{db: bun.NewDB(sqldb, pgdialect.New())}
	if err := s.initSchema(ctx); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PGStore) initSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*scoreRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create table: %v", ErrStorage, err)
	}

	// Same indexes the leaderboard and history queries sort on.
	if _, err := s.db.NewCreateIndex().
		Model((*scoreRow)(nil)).
		IfNotExists().
		Index("scores_score_created_at_idx").
		ColumnExpr("score DESC, created_at DESC").
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create leaderboard index: %v", ErrStorage, err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*scoreRow)(nil)).
		IfNotExists().
		Index("scores_username_created_at_idx").
		ColumnExpr("username, created_at DESC").
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: create user history index: %v", ErrStorage, err)
	}
	return nil
}

// Create inserts a new record stamped with the current time.
func (s *PGStore) Create(ctx context.Context, username string, score float64) (model.Record, error) {
	if err := validate(username, score); err != nil {
		return model.Record{}, err
	}

	row := scoreRow{
		Username:  username,
		Score:     score,
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return model.Record{}, fmt.Errorf("%w: insert score: %v", ErrStorage, err)
	}
	return row.record(), nil
}

// FindAll returns every record ordered by (score desc, createdAt desc).
func (s *PGStore) FindAll(ctx context.Context) ([]model.Record, error) {
	var rows []scoreRow
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("score DESC, created_at DESC, id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select leaderboard: %v", ErrStorage, err)
	}
	return toRecords(rows), nil
}

// FindTop returns the leaderboard prefix of at most limit records.
func (s *PGStore) FindTop(ctx context.Context, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	var rows []scoreRow
	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("score DESC, created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select top scores: %v", ErrStorage, err)
	}
	return toRecords(rows), nil
}

// FindByUser returns the user's records ordered by createdAt desc.
func (s *PGStore) FindByUser(ctx context.Context, username string) ([]model.Record, error) {
	var rows []scoreRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("username = ?", username).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: select user scores: %v", ErrStorage, err)
	}
	return toRecords(rows), nil
}

// Count returns the number of stored records, or 0 when the query fails.
func (s *PGStore) Count(ctx context.Context) int {
	n, err := s.db.NewSelect().Model((*scoreRow)(nil)).Count(ctx)
	if err != nil {
		return 0
	}
	return n
}

// Close releases the connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}

func toRecords(rows []scoreRow) []model.Record {
	out := make([]model.Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out
}
