package chatbot

import (
	"time"

	"github.com/botforge/chatbot-backend/internal/entity"
)

func toChatbotDetail(bot *entity.Chatbot) *entity.ChatbotDetail {
	detail := &entity.ChatbotDetail{
		ID:                   bot.ID,
		Name:                 bot.Name,
		Description:          bot.Description,
		PictureKey:           bot.PictureKey,
		Temperature:          bot.Temperature,
		LLM:                  bot.LLM,
		Instructions:         bot.Instructions,
		ConversationStarters: bot.ConversationStarters,
		ConnectedWebsites:    bot.ConnectedWebsites,
		Published:            bot.Published,
		CreatedAt:            bot.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            bot.UpdatedAt.Format(time.RFC3339),
	}
	if bot.PublishedAt != nil {
		detail.PublishedAt = bot.PublishedAt.Format(time.RFC3339)
	}
	return detail
}
