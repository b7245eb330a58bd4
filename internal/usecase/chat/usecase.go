package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/llm"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	toolSearchKnowledgeBase    = "SearchKnowledgeBase"
	toolSearchWebsiteKnowledge = "SearchWebsiteSpecificKnowledge"

	// toolErrorResult is returned to the model when retrieval fails. The
	// model sees it as an ordinary tool result and answers without context.
	toolErrorResult = "Error searching knowledge base."

	noRelevantInfo = "No relevant info found."
)

// ChatUsecase answers chat turns with retrieval-augmented generation. The
// model decides when to search; the usecase runs the bounded tool loop and
// streams the final answer's tokens through the caller's emit function.
type ChatUsecase struct {
	llm      LLMConnector
	vectors  VectorIndex
	resolver ConfigResolver
	llmCfg   config.LLMConfig
	chatCfg  config.ChatConfig
	mocks    bool
	logger   *zap.Logger
}

func NewUsecase(
	llmConnector LLMConnector,
	vectors VectorIndex,
	resolver ConfigResolver,
	llmCfg config.LLMConfig,
	chatCfg config.ChatConfig,
	enableMocks bool,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		llm:      llmConnector,
		vectors:  vectors,
		resolver: resolver,
		llmCfg:   llmCfg,
		chatCfg:  chatCfg,
		mocks:    enableMocks,
		logger:   logger,
	}
}

// AnswerChatTurn runs one conversation turn. Validation failures surface
// before the first token so the handler can still send an error status.
func (uc *ChatUsecase) AnswerChatTurn(
	ctx context.Context,
	req *entity.ChatTurnRequest,
	emit func(token string) error,
) error {
	if _, err := uuid.Parse(req.ChatbotID); err != nil {
		return fmt.Errorf("%w: chatbot_id", entity.ErrInvalidFormat)
	}
	if req.Message == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}
	if !uc.mocks && uc.llmCfg.APIKey == "" {
		return entity.ErrMissingAPIKey
	}

	cfg, err := uc.resolver.ResolveChatConfig(ctx, req.ChatbotID, req.WebsiteID)
	if err != nil {
		return err
	}

	messages := buildTranscript(cfg, req)
	tools := uc.buildTools(cfg)

	streamFunc := func(ctx context.Context, chunk []byte) error {
		return emit(string(chunk))
	}

	for round := 0; round < uc.llmCfg.MaxToolRounds; round++ {
		result, err := uc.llm.GenerateTurn(ctx, &llm.TurnRequest{
			Model:       cfg.LLM.ModelName,
			Temperature: cfg.Temperature,
			Messages:    messages,
			Tools:       tools,
			StreamFunc:  streamFunc,
		})
		if err != nil {
			return fmt.Errorf("generate turn: %w", err)
		}

		if len(result.ToolCalls) == 0 {
			return nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})

		for _, call := range result.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				ToolName:   call.Name,
				Content:    uc.runTool(ctx, cfg, call),
			})
		}
	}

	ctxzap.Warn(ctx, "tool round limit reached without a final answer",
		zap.String("chatbot_id", cfg.ChatbotID),
		zap.Int("max_rounds", uc.llmCfg.MaxToolRounds),
	)

	// Force a final answer with the context gathered so far by offering
	// no tools on the last round.
	if _, err := uc.llm.GenerateTurn(ctx, &llm.TurnRequest{
		Model:       cfg.LLM.ModelName,
		Temperature: cfg.Temperature,
		Messages:    messages,
		StreamFunc:  streamFunc,
	}); err != nil {
		return fmt.Errorf("generate final turn: %w", err)
	}

	return nil
}

// runTool executes one retrieval call. Failures never propagate to the
// conversation; the model receives a fixed error string instead.
func (uc *ChatUsecase) runTool(ctx context.Context, cfg *entity.ChatConfig, call llm.ToolCall) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		ctxzap.Warn(ctx, "malformed tool arguments",
			zap.String("tool", call.Name), zap.Error(err))
		return toolErrorResult
	}

	var (
		index  vectorindex.Index
		filter map[string]string
	)
	switch call.Name {
	case toolSearchKnowledgeBase:
		index = vectorindex.IndexChatbot
		filter = map[string]string{entity.MetaChatbotID: cfg.ChatbotID}
	case toolSearchWebsiteKnowledge:
		index = vectorindex.IndexWpPost
		filter = map[string]string{entity.MetaWebsiteID: cfg.WebsiteID}
	default:
		ctxzap.Warn(ctx, "model requested unknown tool", zap.String("tool", call.Name))
		return toolErrorResult
	}

	matches, err := uc.vectors.Query(ctx, index, cfg.ChatbotID, args.Query, uc.chatCfg.RetrievalTopK, filter)
	if err != nil {
		ctxzap.Warn(ctx, "knowledge base search failed",
			zap.String("tool", call.Name),
			zap.String("chatbot_id", cfg.ChatbotID),
			zap.Error(err),
		)
		return toolErrorResult
	}

	return joinMatches(matches)
}

func (uc *ChatUsecase) buildTools(cfg *entity.ChatConfig) []llm.ToolDef {
	querySchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query for relevant information",
			},
		},
		"required": []string{"query"},
	}

	tools := []llm.ToolDef{{
		Name:        toolSearchKnowledgeBase,
		Description: "Searches knowledge base whenever user asks a question related to knowledge",
		Parameters:  querySchema,
	}}

	if cfg.ConnectWebsite {
		tools = append(tools, llm.ToolDef{
			Name:        toolSearchWebsiteKnowledge,
			Description: "Searches website content",
			Parameters:  querySchema,
		})
	}

	return tools
}
