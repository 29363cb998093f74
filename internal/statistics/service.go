package statistics

import "context"

// Service records view and download events against an underlying store.
// Events carry a literal delta (views=1 or downloads=1); the store's
// additive merge makes them safe to fire concurrently.
type Service struct {
	store Store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(store Store) *Service {
	return &Service{store: store}
}

// RecordView counts one view of a resume.
func (s *Service) RecordView(ctx context.Context, resumeID string) error {
	_, err := s.store.Increment(ctx, resumeID, Counts{Views: 1})
	return err
}

// RecordDownload counts one download of a resume.
func (s *Service) RecordDownload(ctx context.Context, resumeID string) error {
	_, err := s.store.Increment(ctx, resumeID, Counts{Downloads: 1})
	return err
}

// Snapshot returns the current counters, zeros when none were recorded.
func (s *Service) Snapshot(ctx context.Context, resumeID string) (Counts, error) {
	return s.store.Get(ctx, resumeID)
}

// Remove drops the counters along with their resume.
func (s *Service) Remove(ctx context.Context, resumeID string) error {
	return s.store.Delete(ctx, resumeID)
}
