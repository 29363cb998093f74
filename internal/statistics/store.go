package statistics

import "context"

// Store persists per-resume counters.
//
// Increment must merge additively: two concurrent events each carrying
// views=1 leave the stored value at 2, never 1. The row is created
// implicitly on the first event.
type Store interface {
	Increment(ctx context.Context, resumeID string, delta Counts) (Counts, error)

	// Get returns the current counters, zeros when no row exists yet.
	Get(ctx context.Context, resumeID string) (Counts, error)

	// Delete removes the counters; deleting an absent row is not an error.
	Delete(ctx context.Context, resumeID string) error
}
