package chatbot

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
)

type ChatbotUsecase interface {
	CreateChatbot(ctx context.Context, req *entity.CreateChatbotRequest) (*entity.Chatbot, error)
	GetChatbot(ctx context.Context, id string) (*entity.Chatbot, error)
	ListChatbots(ctx context.Context, req *entity.ListChatbotsRequest) (*entity.ListChatbotsResponse, error)
	UpdateChatbot(ctx context.Context, req *entity.UpdateChatbotRequest) (*entity.Chatbot, error)
	TogglePublish(ctx context.Context, id string) (*entity.PublishChatbotResponse, error)
	CloneChatbot(ctx context.Context, sourceID string) (*entity.CloneChatbotResponse, error)
	DeleteChatbot(ctx context.Context, id string) (*entity.DeleteChatbotResponse, error)
}
