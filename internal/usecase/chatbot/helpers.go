package chatbot

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/pkg/validator"
)

// storePicture validates and persists a chatbot picture, returning its blob key.
func (uc *ChatbotUsecase) storePicture(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := uc.validator.ValidateImage(fh); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open picture: %v", entity.ErrInvalidFile, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: read picture: %v", entity.ErrInvalidFile, err)
	}

	key, err := uc.blobStore.Put(ctx, blob.CategoryImages, validator.SanitizeFilename(fh.Filename), data)
	if err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}

	return key, nil
}

func applyChatbotUpdate(bot *entity.Chatbot, req *entity.UpdateChatbotRequest) {
	if req.Name != nil {
		bot.Name = *req.Name
	}
	if req.Description != nil {
		bot.Description = *req.Description
	}
	if req.Temperature != nil {
		bot.Temperature = *req.Temperature
	}
	if req.Instructions != nil {
		bot.Instructions = *req.Instructions
	}
	if req.ConversationStarters != nil {
		bot.ConversationStarters = req.ConversationStarters
	}
	if req.LLM != nil {
		bot.LLM = *req.LLM
	}
}

func toChatbotSummaries(bots []*entity.Chatbot) []*entity.ChatbotSummary {
	summaries := make([]*entity.ChatbotSummary, 0, len(bots))
	for _, b := range bots {
		summaries = append(summaries, &entity.ChatbotSummary{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Published:   b.Published,
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries
}
