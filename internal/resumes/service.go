package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-vault/internal/extract"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/telemetry"
	"resume-vault/internal/statistics"
	"resume-vault/internal/users"
)

// Artifacts renders and removes derived resume documents. Render failures
// propagate; deletion is best-effort from the caller's point of view.
type Artifacts interface {
	RenderPrintable(ctx context.Context, r Resume) (string, error)
	RenderPreview(ctx context.Context, r Resume) (string, error)
	Delete(ctx context.Context, userID, kind, resumeID string) error
}

// Artifact kinds understood by the storage collaborator.
const (
	ArtifactPrintable = "resumes"
	ArtifactPreview   = "previews"
)

// Service orchestrates every write to a resume and every guarded read.
// Ownership is re-checked at the store on each mutation; nothing is cached
// from earlier reads.
type Service struct {
	Repo     Repo
	Users    *users.Service // optional; seeds new payloads with profile basics
	Stats    *statistics.Service
	Artifact Artifacts // optional in tests
}

// CreateInput carries the caller-supplied fields for Create.
type CreateInput struct {
	Title      string
	Slug       string
	Visibility Visibility
	Data       json.RawMessage
}

// ImportInput carries a wholesale payload migrated from elsewhere.
type ImportInput struct {
	Data  json.RawMessage
	Title string
	Slug  string
}

// Create makes a new resume owned by the caller. The slug defaults to the
// slugified title; a duplicate (owner, slug) fails with ErrSlugConflict and
// is never retried with a mutated slug.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Resume{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Visibility == "" {
		in.Visibility = VisibilityPrivate
	}
	if !in.Visibility.Valid() {
		return Resume{}, fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, in.Visibility)
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}
	if !IsValidSlug(slug) {
		return Resume{}, fmt.Errorf("%w: invalid slug %q", ErrInvalidInput, slug)
	}

	data := in.Data
	if data == nil {
		data = s.defaultDataFor(ctx, userID)
	} else if !json.Valid(data) {
		return Resume{}, fmt.Errorf("%w: data is not valid JSON", ErrInvalidInput)
	}

	now := time.Now().UTC()
	r, err := s.Repo.Insert(ctx, Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      in.Title,
		Slug:       slug,
		Data:       data,
		Visibility: in.Visibility,
		Locked:     false,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, ErrSlugConflict) {
			metrics.IncSlugConflict()
		}
		return Resume{}, err
	}
	metrics.IncResumeCreated()
	return r, nil
}

// Import creates a resume from a wholesale payload. Imported resumes always
// start private; title and slug fall back to a generated name.
func (s *Service) Import(ctx context.Context, userID string, in ImportInput) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if len(in.Data) == 0 || !json.Valid(in.Data) {
		return Resume{}, fmt.Errorf("%w: data is required and must be valid JSON", ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = RandomName()
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(title)
	}
	if !IsValidSlug(slug) {
		return Resume{}, fmt.Errorf("%w: invalid slug %q", ErrInvalidInput, slug)
	}

	now := time.Now().UTC()
	r, err := s.Repo.Insert(ctx, Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		Slug:       slug,
		Data:       in.Data,
		Visibility: VisibilityPrivate,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, ErrSlugConflict) {
			metrics.IncSlugConflict()
		}
		return Resume{}, err
	}
	metrics.IncResumeCreated()
	return r, nil
}

// ImportFile extracts text from an uploaded PDF or DOCX and imports it as a
// minimal payload.
func (s *Service) ImportFile(ctx context.Context, userID, fileName, mimeType string, data []byte) (Resume, error) {
	if len(data) == 0 {
		return Resume{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	started := metrics.NowMillis()
	text, err := extract.TextFromBytes(ctx, data, mimeType, fileName)
	metrics.ObserveImportDurationMs(metrics.NowMillis() - started)
	if err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	title := strings.TrimSpace(strings.TrimSuffix(fileName, fileExt(fileName)))
	return s.Import(ctx, userID, ImportInput{
		Data:  extractedData(text),
		Title: title,
	})
}

// List returns the caller's resumes, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.ListByOwner(ctx, userID)
}

// Get loads a resume by id and applies the visibility guard. A denied read
// is reported as ErrNotFound, indistinguishable from a truly absent id.
func (s *Service) Get(ctx context.Context, id, callerID string) (Resume, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if !CanView(r, callerID) {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

// GetPublic resolves a resume by its public (username, slug) address. A view
// by anyone but the owner is counted; counter failures are logged, never
// surfaced.
func (s *Service) GetPublic(ctx context.Context, username, slug, callerID string) (Resume, error) {
	r, err := s.Repo.GetByUsernameSlug(ctx, username, slug)
	if err != nil {
		return Resume{}, err
	}
	if callerID != r.UserID {
		if err := s.Stats.RecordView(ctx, r.ID); err != nil {
			telemetry.Error("statistics.view_failed", map[string]any{
				"resume_id": r.ID,
				"error":     err.Error(),
			})
		}
	}
	return r, nil
}

// Update applies the patch to a resume owned by the caller. Ownership and
// lock state are evaluated by the store at write time; either every patched
// field lands or none do.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if patch.IsEmpty() {
		return Resume{}, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Resume{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if patch.Slug != nil && !IsValidSlug(*patch.Slug) {
		return Resume{}, fmt.Errorf("%w: invalid slug %q", ErrInvalidInput, *patch.Slug)
	}
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return Resume{}, fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, *patch.Visibility)
	}
	if patch.Data != nil && !json.Valid(patch.Data) {
		return Resume{}, fmt.Errorf("%w: data is not valid JSON", ErrInvalidInput)
	}

	r, err := s.Repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, ErrSlugConflict) {
			metrics.IncSlugConflict()
		}
		return Resume{}, err
	}
	metrics.IncResumeUpdated()
	return r, nil
}

// Lock sets or clears the mutation lock. The toggle itself is exempt from
// the lock check, since it is the only way out of a locked state.
func (s *Service) Lock(ctx context.Context, userID, id string, set bool) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return s.Repo.SetLocked(ctx, userID, id, set)
}

// Delete removes a resume owned by the caller, then clears its statistics
// and derived artifacts. A statistics-removal failure propagates (under
// Postgres the FK cascade makes it a no-op); artifact cleanup alone is
// best-effort.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	metrics.IncResumeDeleted()

	if err := s.Stats.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove statistics for %s: %w", id, err)
	}

	if s.Artifact != nil {
		g, gctx := errgroup.WithContext(ctx)
		for _, kind := range []string{ArtifactPrintable, ArtifactPreview} {
			kind := kind
			g.Go(func() error {
				return s.Artifact.Delete(gctx, userID, kind, id)
			})
		}
		if err := g.Wait(); err != nil {
			telemetry.Error("artifacts.delete_failed", map[string]any{
				"resume_id": id,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

// Print resolves the resume through the visibility guard and renders the
// printable artifact. A download by anyone but the owner is counted; counter
// failures are logged, never surfaced.
func (s *Service) Print(ctx context.Context, id, callerID string) (string, error) {
	r, err := s.Get(ctx, id, callerID)
	if err != nil {
		return "", err
	}
	if s.Artifact == nil {
		return "", errors.New("artifact renderer not configured")
	}
	url, err := s.Artifact.RenderPrintable(ctx, r)
	if err != nil {
		return "", err
	}
	if callerID != r.UserID {
		if err := s.Stats.RecordDownload(ctx, r.ID); err != nil {
			telemetry.Error("statistics.download_failed", map[string]any{
				"resume_id": r.ID,
				"error":     err.Error(),
			})
		}
	}
	return url, nil
}

// Preview renders the preview artifact for a resume visible to the caller.
func (s *Service) Preview(ctx context.Context, id, callerID string) (string, error) {
	r, err := s.Get(ctx, id, callerID)
	if err != nil {
		return "", err
	}
	if s.Artifact == nil {
		return "", errors.New("artifact renderer not configured")
	}
	return s.Artifact.RenderPreview(ctx, r)
}

// Statistics returns the counters for a resume visible to the caller, zeros
// when no events were recorded yet.
func (s *Service) Statistics(ctx context.Context, id, callerID string) (statistics.Counts, error) {
	if _, err := s.Get(ctx, id, callerID); err != nil {
		return statistics.Counts{}, err
	}
	return s.Stats.Snapshot(ctx, id)
}

func (s *Service) defaultDataFor(ctx context.Context, userID string) json.RawMessage {
	if s.Users == nil {
		return DefaultData("", "", "")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return DefaultData("", "", "")
	}
	return DefaultData(u.FullName, u.Email, u.PictureURL)
}

func fileExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
