package statistics

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]Counts
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]Counts)}
}

func (s *memoryStore) Increment(ctx context.Context, resumeID string, delta Counts) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.data[resumeID]
	c.Views += delta.Views
	c.Downloads += delta.Downloads
	s.data[resumeID] = c
	return c, nil
}

func (s *memoryStore) Get(ctx context.Context, resumeID string) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[resumeID], nil
}

func (s *memoryStore) Delete(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, resumeID)
	return nil
}
