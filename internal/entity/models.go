package entity

import (
	"fmt"
	"time"
)

type LLMProvider string

const (
	LLMProviderOpenAI LLMProvider = "OpenAI"
)

// LLMSettings selects the model used to answer chat turns for a bot.
type LLMSettings struct {
	Provider  LLMProvider `json:"provider"`
	ModelName string      `json:"model_name"`
}

func (s *LLMSettings) Validate() error {
	switch s.Provider {
	case LLMProviderOpenAI:
		return nil
	default:
		return fmt.Errorf("unknown llm provider: %s", s.Provider)
	}
}

// DefaultLLMSettings returns the model assigned to newly created bots.
func DefaultLLMSettings() LLMSettings {
	return LLMSettings{
		Provider:  LLMProviderOpenAI,
		ModelName: "gpt-4o-mini",
	}
}

// Chatbot is the root entity. Everything else (trainings, websites,
// wp posts, vector namespaces) hangs off its ID.
type Chatbot struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	PictureKey           string      `json:"picture_key,omitempty"`
	Temperature          float64     `json:"temperature"`
	LLM                  LLMSettings `json:"llm"`
	Instructions         string      `json:"instructions"`
	ConversationStarters []string    `json:"conversation_starters"`
	ConnectedWebsites    []string    `json:"connected_websites"`
	Published            bool        `json:"published"`
	PublishedAt          *time.Time  `json:"published_at,omitempty"`
	CreatedBy            string      `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// TrainingFile records one ingested source file: where its bytes live in
// the blob store and which vector chunks were derived from it.
type TrainingFile struct {
	BlobKey     string   `json:"blob_key"`
	DocumentIDs []string `json:"document_ids"`
}

// Training groups the files ingested in one batch for a chatbot.
type Training struct {
	ID          string         `json:"id"`
	ChatbotID   string         `json:"chatbot_id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Files       []TrainingFile `json:"files"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

const TrainingTypeDefault = "default"

// Website is a deployment target of a chatbot. It may override the
// bot's presentation and model settings for that site.
type Website struct {
	ID                   string      `json:"id"`
	ChatbotID            string      `json:"chatbot_id"`
	Name                 string      `json:"name"`
	DomainName           string      `json:"domain_name"`
	Description          string      `json:"description"`
	Temperature          float64     `json:"temperature"`
	LLM                  LLMSettings `json:"llm"`
	Instructions         string      `json:"instructions"`
	ConversationStarters []string    `json:"conversation_starters"`
	CreatedBy            string      `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// WpPost tracks the vector chunks derived from one synced WordPress post.
// (WebsiteID, WpID) identifies the post; a resync replaces the chunks.
type WpPost struct {
	ID          string    `json:"id"`
	ChatbotID   string    `json:"chatbot_id"`
	WebsiteID   string    `json:"website_id"`
	WpID        string    `json:"wp_id"`
	Title       string    `json:"title"`
	DocumentIDs []string  `json:"document_ids"`
	CreatedAt   time.Time `json:"created_at"`
}
