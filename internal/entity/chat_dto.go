package entity

// ChatMessage is one prior turn of the conversation, replayed by the widget
// on every request. The service itself keeps no conversation state.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatTurnRequest struct {
	ChatbotID string        `json:"chatbot_id"`
	Message   string        `json:"message"`
	History   []ChatMessage `json:"history"`
	WebsiteID string        `json:"website_id,omitempty"`
}
