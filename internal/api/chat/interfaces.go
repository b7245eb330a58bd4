package chat

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
)

type ChatUsecase interface {
	AnswerChatTurn(ctx context.Context, req *entity.ChatTurnRequest, emit func(token string) error) error
}

// ConfigResolver serves the widget bootstrap config.
type ConfigResolver interface {
	ResolveChatConfig(ctx context.Context, chatbotID, websiteID string) (*entity.ChatConfig, error)
}
