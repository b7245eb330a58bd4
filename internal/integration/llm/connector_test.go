package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestToToolsMapsDefinitions(t *testing.T) {
	defs := []ToolDef{
		{
			Name:        "SearchKnowledgeBase",
			Description: "Searches the knowledge base.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string"},
				},
			},
		},
	}

	tools := toTools(defs)
	require.Len(t, tools, 1)

	assert.Equal(t, "function", tools[0].Type)
	require.NotNil(t, tools[0].Function)
	assert.Equal(t, "SearchKnowledgeBase", tools[0].Function.Name)
	assert.Equal(t, "Searches the knowledge base.", tools[0].Function.Description)
	assert.Equal(t, defs[0].Parameters, tools[0].Function.Parameters)
}

func TestToMessagesPlainTranscript(t *testing.T) {
	converted := toMessages([]Message{
		{Role: RoleSystem, Content: "You are helpful."},
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello!"},
	})
	require.Len(t, converted, 3)

	assert.Equal(t, llms.ChatMessageTypeSystem, converted[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, converted[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, converted[2].Role)
}

func TestToMessagesToolRound(t *testing.T) {
	converted := toMessages([]Message{
		{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{
				{ID: "call-1", Name: "SearchKnowledgeBase", Arguments: `{"query":"warranty"}`},
			},
		},
		{
			Role:       RoleTool,
			Content:    "30 day warranty on all widgets.",
			ToolCallID: "call-1",
			ToolName:   "SearchKnowledgeBase",
		},
	})
	require.Len(t, converted, 2)

	assert.Equal(t, llms.ChatMessageTypeAI, converted[0].Role)
	require.Len(t, converted[0].Parts, 1)
	call, ok := converted[0].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "call-1", call.ID)
	assert.Equal(t, "function", call.Type)
	require.NotNil(t, call.FunctionCall)
	assert.Equal(t, "SearchKnowledgeBase", call.FunctionCall.Name)
	assert.Equal(t, `{"query":"warranty"}`, call.FunctionCall.Arguments)

	assert.Equal(t, llms.ChatMessageTypeTool, converted[1].Role)
	require.Len(t, converted[1].Parts, 1)
	resp, ok := converted[1].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", resp.ToolCallID)
	assert.Equal(t, "SearchKnowledgeBase", resp.Name)
	assert.Equal(t, "30 day warranty on all widgets.", resp.Content)
}
