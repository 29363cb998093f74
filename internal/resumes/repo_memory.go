package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode and
// tests. A single mutex stands in for the store's per-row atomicity, so the
// lock check and the patch application happen under one critical section,
// matching the conditional-update semantics of the Postgres repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]Resume // resume id -> resume
	users UserDirectory     // optional, for public slug lookup
}

// NewMemoryRepo constructs a MemoryRepo. users may be nil, in which case
// public lookup by (username, slug) always reports not found.
func NewMemoryRepo(users UserDirectory) *MemoryRepo {
	return &MemoryRepo{
		data:  make(map[string]Resume),
		users: users,
	}
}

// Insert stores a new resume, enforcing (owner, slug) uniqueness.
func (m *MemoryRepo) Insert(ctx context.Context, r Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.data {
		if existing.UserID == r.UserID && existing.Slug == r.Slug {
			return Resume{}, ErrSlugConflict
		}
	}
	m.data[r.ID] = r
	return r, nil
}

// Get loads a resume by id without owner scoping.
func (m *MemoryRepo) Get(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

// GetByOwner loads a resume scoped to its owner.
func (m *MemoryRepo) GetByOwner(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

// GetByUsernameSlug resolves the public address for a resume.
func (m *MemoryRepo) GetByUsernameSlug(ctx context.Context, username, slug string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	if m.users == nil {
		return Resume{}, ErrNotFound
	}
	userID, err := m.users.IDByUsername(ctx, username)
	if err != nil {
		return Resume{}, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.data {
		if r.UserID == userID && r.Slug == slug && r.Visibility == VisibilityPublic {
			return r, nil
		}
	}
	return Resume{}, ErrNotFound
}

// ListByOwner lists resumes most recently updated first.
func (m *MemoryRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Resume
	for _, r := range m.data {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Update applies the patch under the repo lock, mirroring the conditional
// single-statement update of the Postgres repo.
func (m *MemoryRepo) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	if r.Locked {
		return Resume{}, ErrLocked
	}

	slug := r.Slug
	if patch.Slug != nil {
		slug = *patch.Slug
	}
	if slug != r.Slug {
		for _, existing := range m.data {
			if existing.ID != r.ID && existing.UserID == userID && existing.Slug == slug {
				return Resume{}, ErrSlugConflict
			}
		}
	}

	if patch.Title != nil {
		r.Title = *patch.Title
	}
	r.Slug = slug
	if patch.Visibility != nil {
		r.Visibility = *patch.Visibility
	}
	if patch.Data != nil {
		// Copy so later caller mutations cannot alias the stored row.
		r.Data = append([]byte(nil), patch.Data...)
	}
	r.UpdatedAt = time.Now().UTC()
	m.data[id] = r
	return r, nil
}

// SetLocked toggles the lock within the owner scope.
func (m *MemoryRepo) SetLocked(ctx context.Context, userID, id string, locked bool) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return Resume{}, ErrNotFound
	}
	r.Locked = locked
	r.UpdatedAt = time.Now().UTC()
	m.data[id] = r
	return r, nil
}

// Delete removes the resume within the owner scope.
func (m *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
