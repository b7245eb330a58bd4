package vectorindex_test

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// wordHashEmbedder maps each word to a bucket of a fixed-size vector, so
// texts sharing words embed close together. Deterministic, no network.
type wordHashEmbedder struct{}

func (wordHashEmbedder) embed(text string) []float32 {
	const dim = 64
	vec := make([]float32, dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%dim]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (e wordHashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e wordHashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func newTestStore(t *testing.T) *vectorindex.ChromemStore {
	t.Helper()

	store, err := vectorindex.NewChromemStore(
		config.VectorStoreConfig{Path: t.TempDir()},
		wordHashEmbedder{},
		zap.NewNop(),
	)
	require.NoError(t, err)
	return store
}

func TestUpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []entity.VectorDocument{
		{
			ID:       "doc-1",
			Content:  "the blue widget warranty lasts two years",
			Metadata: map[string]string{entity.MetaChatbotID: "bot-1"},
		},
		{
			ID:       "doc-2",
			Content:  "shipping usually takes five business days",
			Metadata: map[string]string{entity.MetaChatbotID: "bot-1"},
		},
	}
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-1", docs))

	matches, err := store.Query(ctx, vectorindex.IndexChatbot, "bot-1", "blue widget warranty", 2, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1", matches[0].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestQueryRespectsMetadataFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []entity.VectorDocument{
		{
			ID:       "site-1",
			Content:  "opening hours for the downtown store",
			Metadata: map[string]string{entity.MetaWebsiteID: "site-a"},
		},
		{
			ID:       "site-2",
			Content:  "opening hours for the airport store",
			Metadata: map[string]string{entity.MetaWebsiteID: "site-b"},
		},
	}
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexWpPost, "bot-1", docs))

	matches, err := store.Query(ctx, vectorindex.IndexWpPost, "bot-1", "opening hours", 5,
		map[string]string{entity.MetaWebsiteID: "site-b"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "site-2", matches[0].ID)
}

func TestQueryDoesNotCrossNamespaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []entity.VectorDocument{
		{ID: "doc-1", Content: "refund policy for damaged items"},
	}
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-a", docs))

	matches, err := store.Query(ctx, vectorindex.IndexChatbot, "bot-b", "refund policy", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryAbsentNamespace(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.Query(context.Background(), vectorindex.IndexChatbot, "no-such-bot", "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDeleteByIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []entity.VectorDocument{
		{ID: "doc-1", Content: "warranty terms for widgets"},
		{ID: "doc-2", Content: "shipping rates by region"},
	}
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-1", docs))

	require.NoError(t, store.DeleteByIDs(ctx, vectorindex.IndexChatbot, "bot-1", []string{"doc-1"}))

	matches, err := store.Query(ctx, vectorindex.IndexChatbot, "bot-1", "warranty terms", 5, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-2", matches[0].ID)
}

func TestDeleteByIDsAbsentNamespace(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteByIDs(context.Background(), vectorindex.IndexChatbot, "no-such-bot", []string{"doc-1"})
	assert.NoError(t, err)
}

func TestDeleteNamespace(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []entity.VectorDocument{
		{ID: "doc-1", Content: "warranty terms for widgets"},
	}
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-1", docs))

	require.NoError(t, store.DeleteNamespace(ctx, vectorindex.IndexChatbot, "bot-1"))

	matches, err := store.Query(ctx, vectorindex.IndexChatbot, "bot-1", "warranty", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteNamespace(ctx, vectorindex.IndexChatbot, "bot-1"))
}

func TestUpsertReplacesExistingID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-1", []entity.VectorDocument{
		{ID: "doc-1", Content: "old warranty text"},
	}))
	require.NoError(t, store.Upsert(ctx, vectorindex.IndexChatbot, "bot-1", []entity.VectorDocument{
		{ID: "doc-1", Content: "updated warranty text"},
	}))

	matches, err := store.Query(ctx, vectorindex.IndexChatbot, "bot-1", "warranty text", 5, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "updated warranty text", matches[0].Content)
}
