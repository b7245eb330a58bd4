package llm

import (
	"context"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Connector drives chat completions through an OpenAI-compatible endpoint.
type Connector struct {
	client *openai.LLM
	cfg    config.LLMConfig
	logger *zap.Logger
}

func NewConnector(cfg config.LLMConfig, logger *zap.Logger) (*Connector, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.DefaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	return &Connector{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// GenerateTurn runs one generation round and reports either content or
// tool calls. Content tokens stream through req.StreamFunc when set.
func (c *Connector) GenerateTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	opts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(req.Temperature),
	}
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(toTools(req.Tools)))
	}
	if req.StreamFunc != nil {
		opts = append(opts, llms.WithStreamingFunc(req.StreamFunc))
	}

	resp, err := c.client.GenerateContent(ctx, toMessages(req.Messages), opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	choice := resp.Choices[0]
	result := &TurnResult{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}

	ctxzap.Debug(ctx, "llm turn generated",
		zap.String("model", model),
		zap.Int("tool_calls", len(result.ToolCalls)),
	)

	return result, nil
}

func toTools(defs []ToolDef) []llms.Tool {
	tools := make([]llms.Tool, len(defs))
	for i, def := range defs {
		tools[i] = llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}
	return tools
}

func toMessages(messages []Message) []llms.MessageContent {
	converted := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			converted = append(converted, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case RoleUser:
			converted = append(converted, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				converted = append(converted, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
				continue
			}
			parts := make([]llms.ContentPart, 0, len(msg.ToolCalls))
			for _, tc := range msg.ToolCalls {
				parts = append(parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			converted = append(converted, llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: parts,
			})
		case RoleTool:
			converted = append(converted, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: msg.ToolCallID,
						Name:       msg.ToolName,
						Content:    msg.Content,
					},
				},
			})
		}
	}
	return converted
}
