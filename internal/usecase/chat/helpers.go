package chat

import (
	"fmt"
	"strings"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/llm"
)

// buildSystemPrompt renders the bot's persona instruction. When the bot has
// conversation starters the model is told to ask them one at a time.
func buildSystemPrompt(cfg *entity.ChatConfig) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a chatbot named %q. Follow these instructions when interacting with users:\n", cfg.Name)
	fmt.Fprintf(&sb, "Instructions:\n%s\n", cfg.Instructions)

	if len(cfg.ConversationStarters) > 0 {
		sb.WriteString("\nBegin the conversation by asking the following question(s), **one at a time**. ")
		sb.WriteString("Wait for the user's response before moving to the next question:\n")
		sb.WriteString(strings.Join(cfg.ConversationStarters, " "))
	}

	return sb.String()
}

// buildTranscript assembles the model input: system prompt, replayed
// history, then the new user message. Unknown history roles are dropped.
func buildTranscript(cfg *entity.ChatConfig, req *entity.ChatTurnRequest) []llm.Message {
	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: buildSystemPrompt(cfg),
	})

	for _, m := range req.History {
		switch m.Role {
		case entity.ChatRoleUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case entity.ChatRoleAssistant:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: m.Content})
		}
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	return messages
}

func joinMatches(matches []entity.VectorMatch) string {
	if len(matches) == 0 {
		return noRelevantInfo
	}

	contents := make([]string, 0, len(matches))
	for _, m := range matches {
		contents = append(contents, m.Content)
	}

	return strings.Join(contents, "\n\n")
}
