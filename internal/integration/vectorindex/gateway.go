// Package vectorindex is the single entry point to vector storage. All
// writes, queries and deletions of embedded chunks go through the Gateway
// so namespace scoping cannot be bypassed by callers.
package vectorindex

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
)

// Index names a logical vector store. Training chunks and synced site
// content live in separate indexes so their retrieval never mixes.
type Index string

const (
	IndexChatbot Index = "chatbot"
	IndexWpPost  Index = "wp_post"
)

// Gateway stores and retrieves embedded chunks. A namespace is the chatbot
// ID that owns the chunks; queries never cross namespaces.
type Gateway interface {
	// Upsert writes documents under their pre-assigned IDs. Writing an
	// existing ID replaces that document.
	Upsert(ctx context.Context, index Index, namespace string, docs []entity.VectorDocument) error

	// Query returns up to k matches ordered by descending relevance.
	// An absent or empty namespace yields zero matches, not an error.
	Query(ctx context.Context, index Index, namespace, query string, k int, filter map[string]string) ([]entity.VectorMatch, error)

	// DeleteByIDs removes the given documents. Unknown IDs and absent
	// namespaces are no-ops.
	DeleteByIDs(ctx context.Context, index Index, namespace string, ids []string) error

	// DeleteNamespace removes every document in the namespace.
	DeleteNamespace(ctx context.Context, index Index, namespace string) error
}

// Embedder turns text into vectors. Batch and query embeddings must come
// from the same model or similarity scores are meaningless.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
