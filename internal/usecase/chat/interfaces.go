package chat

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/llm"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
)

type LLMConnector interface {
	GenerateTurn(ctx context.Context, req *llm.TurnRequest) (*llm.TurnResult, error)
}

type VectorIndex interface {
	Query(ctx context.Context, index vectorindex.Index, namespace, query string, k int, filter map[string]string) ([]entity.VectorMatch, error)
}

// ConfigResolver produces the effective chatbot configuration for a turn,
// applying website overrides where a website id is given.
type ConfigResolver interface {
	ResolveChatConfig(ctx context.Context, chatbotID, websiteID string) (*entity.ChatConfig, error)
}
