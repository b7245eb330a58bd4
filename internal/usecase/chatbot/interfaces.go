package chatbot

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
)

type BlobStore interface {
	Put(ctx context.Context, category blob.Category, name string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type VectorIndex interface {
	Upsert(ctx context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error
	DeleteByIDs(ctx context.Context, index vectorindex.Index, namespace string, ids []string) error
	DeleteNamespace(ctx context.Context, index vectorindex.Index, namespace string) error
}
