package auth

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockUserID = "mock-user"

// MockConnector accepts every token and resolves it to a fixed user.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) CurrentUser(ctx context.Context, token string) (string, error) {
	ctxzap.Debug(ctx, "[MOCK] resolving session token", zap.String("user_id", mockUserID))
	return mockUserID, nil
}
