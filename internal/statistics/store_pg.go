package statistics

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed statistics store.
func NewPGStore(db *sql.DB) Store {
	return &pgStore{DB: db}
}

// Increment upserts the counter row. The conflict clause adds the event's
// delta to the stored value instead of overwriting it, so concurrent events
// never lose increments; the single statement is the unit of atomicity.
func (s *pgStore) Increment(ctx context.Context, resumeID string, delta Counts) (Counts, error) {
	const query = `
INSERT INTO resume_statistics (resume_id, views, downloads)
VALUES ($1, $2, $3)
ON CONFLICT (resume_id) DO UPDATE SET
  views = resume_statistics.views + EXCLUDED.views,
  downloads = resume_statistics.downloads + EXCLUDED.downloads,
  updated_at = now()
RETURNING views, downloads`
	var out Counts
	err := s.DB.QueryRowContext(ctx, query, resumeID, delta.Views, delta.Downloads).
		Scan(&out.Views, &out.Downloads)
	if err != nil {
		return Counts{}, err
	}
	return out, nil
}

func (s *pgStore) Get(ctx context.Context, resumeID string) (Counts, error) {
	const query = `
SELECT views, downloads FROM resume_statistics WHERE resume_id = $1 LIMIT 1`
	var out Counts
	err := s.DB.QueryRowContext(ctx, query, resumeID).Scan(&out.Views, &out.Downloads)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Counts{}, nil
		}
		return Counts{}, err
	}
	return out, nil
}

func (s *pgStore) Delete(ctx context.Context, resumeID string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM resume_statistics WHERE resume_id = $1`, resumeID)
	return err
}
