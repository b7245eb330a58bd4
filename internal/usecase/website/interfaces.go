package website

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
)

type VectorIndex interface {
	Upsert(ctx context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error
	DeleteByIDs(ctx context.Context, index vectorindex.Index, namespace string, ids []string) error
}

// ConfigInvalidator drops cached chat configurations when a website's
// overrides change.
type ConfigInvalidator interface {
	InvalidateChatConfig(chatbotID string)
}
