package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving, retrieving, and removing
// binary objects.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)

	// Delete removes a stored object; deleting an absent key is not an error.
	Delete(ctx context.Context, storageKey string) error
}
