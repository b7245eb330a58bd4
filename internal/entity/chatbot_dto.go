package entity

import "mime/multipart"

type CreateChatbotRequest struct {
	Name                 string
	Description          string
	Temperature          float64
	Instructions         string
	ConversationStarters []string
	LLM                  *LLMSettings
	Picture              *multipart.FileHeader
	CreatorID            string
}

type UpdateChatbotRequest struct {
	ID                   string
	Name                 *string
	Description          *string
	Temperature          *float64
	Instructions         *string
	ConversationStarters []string
	LLM                  *LLMSettings
}

type ListChatbotsRequest struct {
	ListRequest
	CreatorID string
}

type ChatbotSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
	CreatedAt   string `json:"created_at"`
}

type ListChatbotsResponse struct {
	Chatbots   []*ChatbotSummary `json:"chatbots"`
	Pagination Pagination        `json:"pagination"`
}

// ChatbotDetail is the full dashboard view of one bot.
type ChatbotDetail struct {
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
	PublishedAt          string      `json:"published_at,omitempty"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
}

type DeleteChatbotResponse struct {
	Status string `json:"status"`
}

type CloneChatbotResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TrainingsCloned int    `json:"trainings_cloned"`
}

type PublishChatbotResponse struct {
	ID          string `json:"id"`
	Published   bool   `json:"published"`
	PublishedAt string `json:"published_at,omitempty"`
}

// ChatConfig is the configuration a chat widget fetches before opening a
// conversation. For website deployments the website's overrides replace the
// bot's own presentation fields.
type ChatConfig struct {
	ChatbotID            string      `json:"chatbot_id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Instructions         string      `json:"instructions"`
	Temperature          float64     `json:"temperature"`
	LLM                  LLMSettings `json:"llm"`
	ConversationStarters []string    `json:"conversation_starters"`
	ConnectWebsite       bool        `json:"connect_website"`
	WebsiteID            string      `json:"website_id,omitempty"`
}
