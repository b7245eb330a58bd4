package vectorindex

import (
	"context"
	"fmt"
	"os"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

// ChromemStore implements Gateway on top of chromem-go, an embedded vector
// database persisted to disk. Each (index, namespace) pair maps to one
// chromem collection, so deleting a namespace is a collection drop.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	logger   *zap.Logger
}

var _ Gateway = (*ChromemStore)(nil)

func NewChromemStore(cfg config.VectorStoreConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", entity.ErrInvalidParameter)
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vector store directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}

	logger.Info("vector store opened",
		zap.String("path", cfg.Path),
		zap.Bool("compress", cfg.Compress),
	)

	return &ChromemStore{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func collectionName(index Index, namespace string) string {
	return fmt.Sprintf("%s_%s", index, namespace)
}

// embeddingFunc adapts the Embedder to chromem's per-text callback.
func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

func (s *ChromemStore) Upsert(ctx context.Context, index Index, namespace string, docs []entity.VectorDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if namespace == "" {
		return fmt.Errorf("%w: namespace", entity.ErrMissingField)
	}

	name := collectionName(index, namespace)
	collection, err := s.db.GetOrCreateCollection(name, nil, s.embeddingFunc())
	if err != nil {
		return fmt.Errorf("get or create collection %s: %w", name, err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d documents: %w", len(docs), err)
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1: embeddings are already computed in batch above.
	if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("add documents to %s: %w", name, err)
	}

	s.logger.Debug("vector documents upserted",
		zap.String("collection", name),
		zap.Int("count", len(docs)),
	)

	return nil
}

func (s *ChromemStore) Query(ctx context.Context, index Index, namespace, query string, k int, filter map[string]string) ([]entity.VectorMatch, error) {
	if query == "" || k <= 0 {
		return nil, fmt.Errorf("%w: query and k are required", entity.ErrInvalidParameter)
	}

	name := collectionName(index, namespace)
	collection := s.db.GetCollection(name, s.embeddingFunc())
	if collection == nil {
		return nil, nil
	}

	// chromem rejects k larger than the stored document count.
	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := collection.Query(ctx, query, k, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", name, err)
	}

	matches := make([]entity.VectorMatch, len(results))
	for i, r := range results {
		matches[i] = entity.VectorMatch{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		}
	}

	return matches, nil
}

func (s *ChromemStore) DeleteByIDs(ctx context.Context, index Index, namespace string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	name := collectionName(index, namespace)
	collection := s.db.GetCollection(name, s.embeddingFunc())
	if collection == nil {
		return nil
	}

	for _, id := range ids {
		if err := collection.Delete(ctx, nil, nil, id); err != nil {
			return fmt.Errorf("delete document %s from %s: %w", id, name, err)
		}
	}

	s.logger.Debug("vector documents deleted",
		zap.String("collection", name),
		zap.Int("count", len(ids)),
	)

	return nil
}

func (s *ChromemStore) DeleteNamespace(ctx context.Context, index Index, namespace string) error {
	name := collectionName(index, namespace)
	if s.db.GetCollection(name, s.embeddingFunc()) == nil {
		return nil
	}

	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}

	s.logger.Info("vector namespace deleted", zap.String("collection", name))
	return nil
}
