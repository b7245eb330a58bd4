package embeddings

import (
	"context"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Connector generates embeddings through an OpenAI-compatible endpoint.
// Calls are retried with backoff since embedding APIs rate-limit bursts.
type Connector struct {
	embedder *embeddings.EmbedderImpl
	cfg      config.EmbeddingsConfig
	logger   *zap.Logger
}

func NewConnector(cfg config.EmbeddingsConfig, logger *zap.Logger) (*Connector, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("create embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Connector{
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (c *Connector) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	err := c.cfg.Retry.Do(ctx, func() error {
		var embedErr error
		vectors, embedErr = c.embedder.EmbedDocuments(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}

	ctxzap.Debug(ctx, "documents embedded",
		zap.String("model", c.cfg.Model),
		zap.Int("count", len(texts)),
	)

	return vectors, nil
}

func (c *Connector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vector []float32

	err := c.cfg.Retry.Do(ctx, func() error {
		var embedErr error
		vector, embedErr = c.embedder.EmbedQuery(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return vector, nil
}
