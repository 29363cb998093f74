package resumes

import (
	"encoding/json"
	"time"
)

// Visibility controls who may read a resume.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether the value is one of the known visibility states.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Resume is an owned, visibility-scoped resume record.
type Resume struct {
	ID         string
	UserID     string
	Title      string
	Slug       string
	Data       json.RawMessage
	Visibility Visibility
	Locked     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Patch carries the mutable fields of an update. Nil fields are left
// untouched; all non-nil fields are applied in a single store write.
type Patch struct {
	Title      *string
	Slug       *string
	Visibility *Visibility
	Data       json.RawMessage
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Visibility == nil && p.Data == nil
}
