package docid_test

import (
	"fmt"
	"testing"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/pkg/docid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintFileChunksUnique(t *testing.T) {
	chunks := make([]string, 10000)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
	}

	docs := docid.MintFileChunks(chunks, docid.FileMeta{
		Source:    "report.pdf",
		ChatbotID: "bot-1",
	})
	require.Len(t, docs, len(chunks))

	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		assert.False(t, seen[doc.ID], "duplicate id %s", doc.ID)
		seen[doc.ID] = true
	}
}

func TestMintFileChunksMetadata(t *testing.T) {
	docs := docid.MintFileChunks([]string{"a", "b"}, docid.FileMeta{
		Source:    "manual.docx",
		ChatbotID: "bot-7",
	})
	require.Len(t, docs, 2)

	for i, doc := range docs {
		assert.Equal(t, []string{"a", "b"}[i], doc.Content)
		assert.Equal(t, "manual.docx", doc.Metadata[entity.MetaSource])
		assert.Equal(t, "bot-7", doc.Metadata[entity.MetaChatbotID])
		assert.Empty(t, doc.Metadata[entity.MetaTraining], "training id must be empty before backfill")
	}
}

func TestBackfillTrainingID(t *testing.T) {
	docs := docid.MintFileChunks([]string{"a", "b", "c"}, docid.FileMeta{
		Source:    "faq.csv",
		ChatbotID: "bot-1",
	})

	docid.BackfillTrainingID(docs, "training-42")

	for _, doc := range docs {
		assert.Equal(t, "training-42", doc.Metadata[entity.MetaTraining])
	}
}

func TestMintPostChunksMetadata(t *testing.T) {
	docs := docid.MintPostChunks([]string{"hello"}, docid.PostMeta{
		Source:    "Launch Post",
		ChatbotID: "bot-1",
		WebsiteID: "site-2",
		WpID:      "99",
	})
	require.Len(t, docs, 1)

	meta := docs[0].Metadata
	assert.Equal(t, "Launch Post", meta[entity.MetaSource])
	assert.Equal(t, "bot-1", meta[entity.MetaChatbotID])
	assert.Equal(t, "site-2", meta[entity.MetaWebsiteID])
	assert.Equal(t, "99", meta[entity.MetaWpID])
}

func TestIDsOrder(t *testing.T) {
	docs := docid.MintFileChunks([]string{"x", "y", "z"}, docid.FileMeta{Source: "f", ChatbotID: "b"})

	ids := docid.IDs(docs)
	require.Len(t, ids, 3)
	for i, doc := range docs {
		assert.Equal(t, doc.ID, ids[i])
	}
}
