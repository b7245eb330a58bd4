// Package llm wraps chat completion providers behind a single-turn API.
// The tool-call loop that drives retrieval lives in the chat usecase; this
// package only translates one generation round.
package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolDef describes a function the model may call. Parameters is a JSON
// schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the model's request to run one tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one turn of the transcript sent to the model.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on assistant messages that requested tools.
	ToolCalls []ToolCall

	// ToolCallID and ToolName are set on tool result messages.
	ToolCallID string
	ToolName   string
}

// TurnRequest is one generation round.
type TurnRequest struct {
	Model       string
	Temperature float64
	Messages    []Message
	Tools       []ToolDef

	// StreamFunc, when set, receives content tokens as they are produced.
	StreamFunc func(ctx context.Context, chunk []byte) error
}

// TurnResult is the model's reply: either content or tool calls to run.
type TurnResult struct {
	Content   string
	ToolCalls []ToolCall
}
