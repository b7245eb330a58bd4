package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/integration/common"
	pkghttp "github.com/botforge/chatbot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector resolves bearer tokens to user IDs via the session service.
type Connector struct {
	config    config.AuthConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.AuthConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
}

// CurrentUser returns the user ID behind the token, or an empty string for
// inactive sessions.
func (c *Connector) CurrentUser(ctx context.Context, token string) (string, error) {
	var resp introspectResponse

	err := c.config.Retry.Do(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.IntrospectEndpoint,
			&introspectRequest{Token: token}, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("introspect session: %w", err)
	}

	if !resp.Active {
		ctxzap.Debug(ctx, "session token is not active")
		return "", nil
	}

	return resp.UserID, nil
}
