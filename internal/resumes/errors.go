package resumes

import "errors"

var (
	// ErrNotFound indicates the resume is absent or owned by someone else.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("resume not found")

	// ErrLocked indicates a mutation was rejected because the resume is locked.
	ErrLocked = errors.New("resume locked")

	// ErrSlugConflict indicates another resume of the same owner already uses the slug.
	ErrSlugConflict = errors.New("slug already exists")

	// ErrInvalidInput indicates validation or bad input, rejected before the store.
	ErrInvalidInput = errors.New("invalid input")
)
