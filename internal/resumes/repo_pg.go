package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const resumeColumns = "id, user_id, title, slug, data, visibility, locked, created_at, updated_at"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var r Resume
	var data []byte
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.Slug,
		&data,
		&r.Visibility,
		&r.Locked,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	r.Data = data
	return r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Insert stores a new resume.
func (p *PGRepo) Insert(ctx context.Context, r Resume) (Resume, error) {
	const query = `
INSERT INTO resumes (id, user_id, title, slug, data, visibility, locked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + resumeColumns
	row := p.DB.QueryRowContext(ctx, query,
		r.ID,
		r.UserID,
		r.Title,
		r.Slug,
		[]byte(r.Data),
		r.Visibility,
		r.Locked,
		r.CreatedAt,
		r.UpdatedAt,
	)
	out, err := scanResume(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Resume{}, ErrSlugConflict
		}
		return Resume{}, err
	}
	return out, nil
}

// Get loads a resume by id without owner scoping.
func (p *PGRepo) Get(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	r, err := scanResume(p.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return r, nil
}

// GetByOwner loads a resume scoped to its owner.
func (p *PGRepo) GetByOwner(ctx context.Context, userID, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`
	r, err := scanResume(p.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return r, nil
}

// GetByUsernameSlug resolves the public address for a resume. The visibility
// filter lives in the statement: a private resume is never returned here.
func (p *PGRepo) GetByUsernameSlug(ctx context.Context, username, slug string) (Resume, error) {
	const query = `
SELECT r.id, r.user_id, r.title, r.slug, r.data, r.visibility, r.locked, r.created_at, r.updated_at
FROM resumes r
JOIN users u ON u.id = r.user_id
WHERE u.username = $1 AND r.slug = $2 AND r.visibility = 'public'
LIMIT 1`
	r, err := scanResume(p.DB.QueryRowContext(ctx, query, username, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return r, nil
}

// ListByOwner lists resumes most recently updated first.
func (p *PGRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC`
	rows, err := p.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Update applies the patch in a single conditional statement. The
// locked = FALSE predicate is the compare-and-set that closes the
// check-then-act race: the lock state is evaluated at write time, and either
// every patched field lands or none do.
func (p *PGRepo) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	const query = `
UPDATE resumes
SET title = COALESCE($3, title),
    slug = COALESCE($4, slug),
    visibility = COALESCE($5, visibility),
    data = COALESCE($6, data),
    updated_at = now()
WHERE id = $1 AND user_id = $2 AND locked = FALSE
RETURNING ` + resumeColumns
	row := p.DB.QueryRowContext(ctx, query,
		id,
		userID,
		nullableString(patch.Title),
		nullableString(patch.Slug),
		nullableVisibility(patch.Visibility),
		nullableBytes(patch.Data),
	)
	r, err := scanResume(row)
	if err == nil {
		return r, nil
	}
	if isUniqueViolation(err) {
		return Resume{}, ErrSlugConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Resume{}, err
	}
	// Zero rows: the resume is either locked, absent, or foreign-owned.
	var locked bool
	probe := p.DB.QueryRowContext(ctx,
		`SELECT locked FROM resumes WHERE id = $1 AND user_id = $2 LIMIT 1`, id, userID)
	if err := probe.Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return Resume{}, ErrLocked
}

// SetLocked toggles the lock unconditionally within the owner scope.
func (p *PGRepo) SetLocked(ctx context.Context, userID, id string, locked bool) (Resume, error) {
	const query = `
UPDATE resumes
SET locked = $3, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns
	r, err := scanResume(p.DB.QueryRowContext(ctx, query, id, userID, locked))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return r, nil
}

// Delete removes the resume; statistics rows go with it via FK cascade.
func (p *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := p.DB.ExecContext(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableVisibility(v *Visibility) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

var _ Repo = (*PGRepo)(nil)
