package upload

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/integration/blob"
)

type BlobStore interface {
	Put(ctx context.Context, category blob.Category, name string, data []byte) (string, error)
}
