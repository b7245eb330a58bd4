// Package common holds shared plumbing for the outbound service connectors.
package common

import (
	"github.com/botforge/chatbot-backend/internal/config"
	pkghttp "github.com/botforge/chatbot-backend/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a JSON client from an HTTPClientConfig block, so
// every connector gets the same timeout, logging and auth behavior.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkghttp.Connector {
	return pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			BaseURL: cfg.Url,
			Logger:  logger,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthToken(cfg.Token),
	)
}
