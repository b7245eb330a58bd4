// Package blob stores raw uploaded files. Keys are opaque to callers and
// recorded in the metadata store so cascading deletion can find the bytes
// belonging to a training.
package blob

import (
	"context"
	"fmt"
	"time"
)

// Category prefixes group blobs by purpose.
type Category string

const (
	CategoryImages    Category = "images"
	CategoryDocuments Category = "documents"
	CategoryOthers    Category = "others"
)

// Store is the blob storage contract.
type Store interface {
	// Put stores data and returns the assigned key.
	Put(ctx context.Context, category Category, name string, data []byte) (string, error)

	// Get returns the stored bytes, or entity.ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a blob. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// makeKey builds the storage key. The millisecond prefix keeps same-named
// uploads from colliding.
func makeKey(category Category, name string) string {
	return fmt.Sprintf("%s/%d-%s", category, time.Now().UnixMilli(), name)
}
