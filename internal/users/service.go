package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-vault/internal/shared/util"
)

// Identity is what the sign-in flow learns about a person from the
// identity provider.
type Identity struct {
	ID         string
	Email      string
	FullName   string
	PictureURL string
}

// Service wraps user persistence with username assignment.
type Service struct {
	Repo Repo
}

// NewService constructs a Service backed by an in-memory repo.
func NewService() *Service {
	return &Service{Repo: NewMemoryRepo()}
}

// NewServiceWithRepo constructs a Service on an explicit repo.
func NewServiceWithRepo(repo Repo) *Service {
	return &Service{Repo: repo}
}

// maxUsernameAttempts bounds suffix retries when the derived handle is taken.
const maxUsernameAttempts = 5

// UpsertFromAuth records a sign-in. New users get a username derived from
// their email local part; if the handle is taken a short random suffix is
// appended and the insert retried.
func (s *Service) UpsertFromAuth(ctx context.Context, identity Identity) (User, error) {
	if identity.ID == "" || identity.Email == "" {
		return User{}, errors.New("identity missing id or email")
	}

	if existing, err := s.Repo.GetByID(ctx, identity.ID); err == nil {
		existing.Email = identity.Email
		existing.FullName = identity.FullName
		existing.PictureURL = identity.PictureURL
		if err := s.Repo.Upsert(ctx, existing); err != nil {
			return User{}, fmt.Errorf("refresh user: %w", err)
		}
		return s.Repo.GetByID(ctx, identity.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	base := UsernameFromEmail(identity.Email)
	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		user := User{
			ID:         identity.ID,
			Username:   candidate,
			Email:      identity.Email,
			FullName:   identity.FullName,
			PictureURL: identity.PictureURL,
		}
		err := s.Repo.Upsert(ctx, user)
		if err == nil {
			return s.Repo.GetByID(ctx, identity.ID)
		}
		if !errors.Is(err, ErrUsernameTaken) {
			return User{}, fmt.Errorf("insert user: %w", err)
		}
		candidate = base + "-" + util.RandomHex(3)
	}
	return User{}, fmt.Errorf("could not assign username for %s", identity.Email)
}

// GetByID fetches a user.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// GetByUsername fetches a user by public handle.
func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.Repo.GetByUsername(ctx, username)
}

// IDByUsername resolves a public handle to a user id.
func (s *Service) IDByUsername(ctx context.Context, username string) (string, error) {
	user, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// UsernameFromEmail derives a handle from the local part of an email,
// lowercased with anything outside [a-z0-9] collapsed to single hyphens.
func UsernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	local = strings.ToLower(local)
	var b strings.Builder
	lastHyphen := false
	for _, ch := range local {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "user"
	}
	return out
}
