package resumes

import (
	"encoding/json"
	"time"
)

type createResumeRequest struct {
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Visibility string          `json:"visibility"`
	Data       json.RawMessage `json:"data"`
}

type importResumeRequest struct {
	Data  json.RawMessage `json:"data"`
	Title string          `json:"title"`
	Slug  string          `json:"slug"`
}

type updateResumeRequest struct {
	Title      *string         `json:"title"`
	Slug       *string         `json:"slug"`
	Visibility *string         `json:"visibility"`
	Data       json.RawMessage `json:"data"`
}

type lockResumeRequest struct {
	Locked *bool `json:"locked"`
}

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Data       json.RawMessage `json:"data"`
	Visibility string          `json:"visibility"`
	Locked     bool            `json:"locked"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// URLResponse wraps a rendered artifact location.
type URLResponse struct {
	URL string `json:"url"`
}

func toResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Slug:       r.Slug,
		Data:       r.Data,
		Visibility: string(r.Visibility),
		Locked:     r.Locked,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (req updateResumeRequest) toPatch() Patch {
	p := Patch{
		Title: req.Title,
		Slug:  req.Slug,
		Data:  req.Data,
	}
	if req.Visibility != nil {
		v := Visibility(*req.Visibility)
		p.Visibility = &v
	}
	return p
}
