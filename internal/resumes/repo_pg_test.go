package resumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return &PGRepo{DB: db}, mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
		db.Close()
	}
}

func resumeRows(r Resume) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "slug", "data", "visibility", "locked", "created_at", "updated_at",
	}).AddRow(r.ID, r.UserID, r.Title, r.Slug, []byte(r.Data), string(r.Visibility), r.Locked, r.CreatedAt, r.UpdatedAt)
}

func TestPGRepoInsertMapsUniqueViolation(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery("INSERT INTO resumes").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_user_slug_unique"})

	_, err := repo.Insert(context.Background(), Resume{
		ID: "r1", UserID: "u1", Title: "T", Slug: "t", Data: []byte(`{}`),
		Visibility: VisibilityPrivate, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict, got %v", err)
	}
}

func TestPGRepoUpdateLockedProbe(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	title := "New"
	// The conditional update matches no row, so the repo probes to tell a
	// locked resume apart from an absent one.
	mock.ExpectQuery("UPDATE resumes").
		WithArgs("r1", "u1", title, nil, nil, nil).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT locked FROM resumes").
		WithArgs("r1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"locked"}).AddRow(true))

	_, err := repo.Update(context.Background(), "u1", "r1", Patch{Title: &title})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestPGRepoUpdateAbsentIsNotFound(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	title := "New"
	mock.ExpectQuery("UPDATE resumes").
		WithArgs("missing", "u1", title, nil, nil, nil).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT locked FROM resumes").
		WithArgs("missing", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "u1", "missing", Patch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateAppliesPatch(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	title := "New"
	want := Resume{
		ID: "r1", UserID: "u1", Title: "New", Slug: "t", Data: []byte(`{}`),
		Visibility: VisibilityPrivate, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	mock.ExpectQuery("UPDATE resumes").
		WithArgs("r1", "u1", title, nil, nil, nil).
		WillReturnRows(resumeRows(want))

	got, err := repo.Update(context.Background(), "u1", "r1", Patch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "New" {
		t.Fatalf("expected patched title, got %q", got.Title)
	}
}

func TestPGRepoUpdateSlugConflict(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	slug := "taken"
	mock.ExpectQuery("UPDATE resumes").
		WithArgs("r1", "u1", nil, slug, nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_user_slug_unique"})

	_, err := repo.Update(context.Background(), "u1", "r1", Patch{Slug: &slug})
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict, got %v", err)
	}
}

func TestPGRepoGetByUsernameSlugFiltersVisibility(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	// The statement itself must carry the public filter.
	mock.ExpectQuery(`visibility = 'public'`).
		WithArgs("jane", "staff-engineer").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsernameSlug(context.Background(), "jane", "staff-engineer")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
