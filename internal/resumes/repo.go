package resumes

import "context"

// Repo defines persistence operations for resumes.
//
// Every owner-scoped operation filters by user id inside the store itself, so
// a resume belonging to another user is structurally unreachable rather than
// filtered after the fact.
type Repo interface {
	// Insert stores a new resume. A duplicate (owner, slug) pair fails with
	// ErrSlugConflict and leaves the existing resume untouched.
	Insert(ctx context.Context, r Resume) (Resume, error)

	// Get loads a resume by id with no owner scoping. Callers must apply
	// CanView before exposing the result.
	Get(ctx context.Context, id string) (Resume, error)

	// GetByOwner loads a resume scoped to its owner.
	GetByOwner(ctx context.Context, userID, id string) (Resume, error)

	// GetByUsernameSlug resolves the public address (username, slug). It only
	// ever returns public resumes.
	GetByUsernameSlug(ctx context.Context, username, slug string) (Resume, error)

	// ListByOwner returns the owner's resumes, most recently updated first.
	ListByOwner(ctx context.Context, userID string) ([]Resume, error)

	// Update applies all non-nil patch fields in one atomic write scoped to
	// (id, owner) and conditioned on locked being false at write time. It
	// fails with ErrLocked when the lock held, ErrSlugConflict on a duplicate
	// slug, and ErrNotFound otherwise. updated_at is refreshed by the write.
	Update(ctx context.Context, userID, id string, p Patch) (Resume, error)

	// SetLocked toggles the lock, bypassing the lock check; it is the only
	// way out of a locked state.
	SetLocked(ctx context.Context, userID, id string, locked bool) (Resume, error)

	// Delete removes the resume scoped to its owner.
	Delete(ctx context.Context, userID, id string) error
}

// UserDirectory resolves public usernames to user ids. The Postgres repo
// joins the users table directly; the memory repo needs a resolver.
type UserDirectory interface {
	IDByUsername(ctx context.Context, username string) (string, error)
}
