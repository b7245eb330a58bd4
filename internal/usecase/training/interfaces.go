package training

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
)

type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type VectorIndex interface {
	Upsert(ctx context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error
	DeleteByIDs(ctx context.Context, index vectorindex.Index, namespace string, ids []string) error
}
