package statistics

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewPGStore(db), mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
		db.Close()
	}
}

func TestPGStoreIncrementIsAdditive(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	// The merge must add the delta to the stored value, never overwrite it.
	mock.ExpectQuery(`views = resume_statistics\.views \+ EXCLUDED\.views`).
		WithArgs("r1", int64(1), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"views", "downloads"}).AddRow(int64(8), int64(2)))

	counts, err := store.Increment(context.Background(), "r1", Counts{Views: 1})
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if counts.Views != 8 || counts.Downloads != 2 {
		t.Fatalf("unexpected merged counts %+v", counts)
	}
}

func TestPGStoreGetAbsentReadsZero(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("SELECT views, downloads FROM resume_statistics").
		WithArgs("never-seen").
		WillReturnError(sql.ErrNoRows)

	counts, err := store.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if counts.Views != 0 || counts.Downloads != 0 {
		t.Fatalf("expected zeros, got %+v", counts)
	}
}

func TestPGStoreDelete(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("DELETE FROM resume_statistics").
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
