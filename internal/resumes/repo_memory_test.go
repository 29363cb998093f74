package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type staticDirectory map[string]string // username -> user id

func (d staticDirectory) IDByUsername(ctx context.Context, username string) (string, error) {
	id, ok := d[username]
	if !ok {
		return "", errors.New("unknown username")
	}
	return id, nil
}

func seedResume(t *testing.T, repo *MemoryRepo, r Resume) Resume {
	t.Helper()
	if r.Data == nil {
		r.Data = json.RawMessage(`{}`)
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	out, err := repo.Insert(context.Background(), r)
	if err != nil {
		t.Fatalf("insert %s: %v", r.ID, err)
	}
	return out
}

func TestMemoryRepoSlugUniquePerOwner(t *testing.T) {
	repo := NewMemoryRepo(nil)
	seedResume(t, repo, Resume{ID: "r1", UserID: "u1", Slug: "staff-engineer"})

	_, err := repo.Insert(context.Background(), Resume{ID: "r2", UserID: "u1", Slug: "staff-engineer", Data: json.RawMessage(`{}`)})
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict for same owner, got %v", err)
	}

	// A different owner may reuse the slug.
	if _, err := repo.Insert(context.Background(), Resume{ID: "r3", UserID: "u2", Slug: "staff-engineer", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("expected cross-owner slug reuse to succeed, got %v", err)
	}
}

func TestMemoryRepoUpdateRespectsLock(t *testing.T) {
	repo := NewMemoryRepo(nil)
	seedResume(t, repo, Resume{ID: "r1", UserID: "u1", Slug: "a", Locked: true})

	title := "New Title"
	_, err := repo.Update(context.Background(), "u1", "r1", Patch{Title: &title})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	// Unlock, then the same patch lands.
	if _, err := repo.SetLocked(context.Background(), "u1", "r1", false); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	r, err := repo.Update(context.Background(), "u1", "r1", Patch{Title: &title})
	if err != nil {
		t.Fatalf("update after unlock: %v", err)
	}
	if r.Title != "New Title" {
		t.Fatalf("expected title applied, got %q", r.Title)
	}
}

func TestMemoryRepoUpdateForeignOwnerIsNotFound(t *testing.T) {
	repo := NewMemoryRepo(nil)
	seedResume(t, repo, Resume{ID: "r1", UserID: "u1", Slug: "a"})

	title := "x"
	_, err := repo.Update(context.Background(), "u2", "r1", Patch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := repo.Delete(context.Background(), "u2", "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign resume, got %v", err)
	}
}

func TestMemoryRepoUpdateSlugConflict(t *testing.T) {
	repo := NewMemoryRepo(nil)
	seedResume(t, repo, Resume{ID: "r1", UserID: "u1", Slug: "a"})
	seedResume(t, repo, Resume{ID: "r2", UserID: "u1", Slug: "b"})

	slug := "a"
	_, err := repo.Update(context.Background(), "u1", "r2", Patch{Slug: &slug})
	if !errors.Is(err, ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict on slug collision, got %v", err)
	}

	// Re-writing a resume's own slug is not a conflict.
	slugB := "b"
	if _, err := repo.Update(context.Background(), "u1", "r2", Patch{Slug: &slugB}); err != nil {
		t.Fatalf("expected no-op slug write to succeed, got %v", err)
	}
}

func TestMemoryRepoListByOwnerOrdersByUpdatedAt(t *testing.T) {
	repo := NewMemoryRepo(nil)
	base := time.Now().UTC()
	seedResume(t, repo, Resume{ID: "old", UserID: "u1", Slug: "old", UpdatedAt: base.Add(-time.Hour), CreatedAt: base.Add(-time.Hour)})
	seedResume(t, repo, Resume{ID: "new", UserID: "u1", Slug: "new", UpdatedAt: base, CreatedAt: base})
	seedResume(t, repo, Resume{ID: "other", UserID: "u2", Slug: "other"})

	list, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("expected most recently updated first, got %s then %s", list[0].ID, list[1].ID)
	}
}

func TestMemoryRepoGetByUsernameSlug(t *testing.T) {
	dir := staticDirectory{"jane": "u1"}
	repo := NewMemoryRepo(dir)
	seedResume(t, repo, Resume{ID: "pub", UserID: "u1", Slug: "staff-engineer", Visibility: VisibilityPublic})
	seedResume(t, repo, Resume{ID: "priv", UserID: "u1", Slug: "secret", Visibility: VisibilityPrivate})

	r, err := repo.GetByUsernameSlug(context.Background(), "jane", "staff-engineer")
	if err != nil {
		t.Fatalf("public lookup: %v", err)
	}
	if r.ID != "pub" {
		t.Fatalf("expected pub, got %s", r.ID)
	}

	// A private resume is invisible at its public address.
	if _, err := repo.GetByUsernameSlug(context.Background(), "jane", "secret"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for private resume, got %v", err)
	}
	if _, err := repo.GetByUsernameSlug(context.Background(), "nobody", "staff-engineer"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown username, got %v", err)
	}
}

func TestMemoryRepoUpdateCopiesData(t *testing.T) {
	repo := NewMemoryRepo(nil)
	seedResume(t, repo, Resume{ID: "r1", UserID: "u1", Slug: "a"})

	payload := json.RawMessage(`{"k":"v"}`)
	if _, err := repo.Update(context.Background(), "u1", "r1", Patch{Data: payload}); err != nil {
		t.Fatalf("update: %v", err)
	}

	payload[2] = 'X' // caller keeps writing into its own buffer

	r, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(r.Data) != `{"k":"v"}` {
		t.Fatalf("stored data aliases the caller's buffer: %s", r.Data)
	}
}
