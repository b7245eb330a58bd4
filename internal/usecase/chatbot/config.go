package chatbot

import (
	"context"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// ResolveChatConfig builds the configuration a chat widget loads before its
// first message. When a website id is given the website's override fields
// replace the bot's own presentation; the website must be connected to the
// bot. Resolutions are cached per (chatbot, website) pair with the
// configured TTL since widgets fetch them on every page load.
func (uc *ChatbotUsecase) ResolveChatConfig(ctx context.Context, chatbotID, websiteID string) (*entity.ChatConfig, error) {
	cacheKey := chatbotID + ":" + websiteID
	if cached, ok := uc.configCache.Get(cacheKey); ok {
		return cached.(*entity.ChatConfig), nil
	}

	bot, err := uc.chatbotRepo.Get(ctx, chatbotID)
	if err != nil {
		return nil, err
	}

	cfg := &entity.ChatConfig{
		ChatbotID:            bot.ID,
		Name:                 bot.Name,
		Description:          bot.Description,
		Instructions:         bot.Instructions,
		Temperature:          bot.Temperature,
		LLM:                  bot.LLM,
		ConversationStarters: bot.ConversationStarters,
	}

	if websiteID != "" {
		if !contains(bot.ConnectedWebsites, websiteID) {
			return nil, fmt.Errorf("%w: website %s", entity.ErrWebsiteNotConnected, websiteID)
		}

		website, err := uc.websiteRepo.Get(ctx, websiteID)
		if err != nil {
			return nil, err
		}

		cfg.Name = website.Name
		cfg.Description = website.Description
		cfg.Instructions = website.Instructions
		cfg.Temperature = website.Temperature
		cfg.LLM = website.LLM
		cfg.ConversationStarters = website.ConversationStarters
		cfg.ConnectWebsite = true
		cfg.WebsiteID = website.ID
	}

	uc.configCache.Set(cacheKey, cfg, gocache.DefaultExpiration)

	return cfg, nil
}

// InvalidateChatConfig drops every cached resolution for the bot, including
// website-scoped ones. Called after any update that feeds the config.
func (uc *ChatbotUsecase) InvalidateChatConfig(chatbotID string) {
	for key := range uc.configCache.Items() {
		if len(key) >= len(chatbotID) && key[:len(chatbotID)] == chatbotID {
			uc.configCache.Delete(key)
		}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
