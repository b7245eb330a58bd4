package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector echoes the latest user message so local development works
// without a completion API. Tokens stream word by word.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) GenerateTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat turn",
		zap.Int("messages", len(req.Messages)),
		zap.Int("tools", len(req.Tools)),
	)

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser {
			lastUser = msg.Content
		}
	}

	content := fmt.Sprintf("This is a mock reply to: %s", lastUser)

	if req.StreamFunc != nil {
		for _, word := range strings.SplitAfter(content, " ") {
			if err := req.StreamFunc(ctx, []byte(word)); err != nil {
				return nil, err
			}
		}
	}

	return &TurnResult{Content: content}, nil
}
