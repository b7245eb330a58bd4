// Package docid assigns durable identities to chunks before they are
// written to the vector index. The minted IDs are what the metadata store
// records, so cascading deletion can later address exactly these vectors.
package docid

import (
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/google/uuid"
)

// FileMeta is the provenance stamped onto chunks minted from a training file.
// TrainingID may be empty at mint time: the training record does not exist
// until every file in the batch has been processed.
type FileMeta struct {
	Source     string
	ChatbotID  string
	TrainingID string
}

// PostMeta is the provenance stamped onto chunks minted from a synced post.
type PostMeta struct {
	Source    string
	ChatbotID string
	WebsiteID string
	WpID      string
}

// MintFileChunks assigns a fresh random ID to every chunk of a training file.
func MintFileChunks(chunks []string, meta FileMeta) []entity.VectorDocument {
	docs := make([]entity.VectorDocument, len(chunks))
	for i, chunk := range chunks {
		docs[i] = entity.VectorDocument{
			ID:      uuid.New().String(),
			Content: chunk,
			Metadata: map[string]string{
				entity.MetaSource:    meta.Source,
				entity.MetaChatbotID: meta.ChatbotID,
				entity.MetaTraining:  meta.TrainingID,
			},
		}
	}
	return docs
}

// MintPostChunks assigns a fresh random ID to every chunk of a synced post.
func MintPostChunks(chunks []string, meta PostMeta) []entity.VectorDocument {
	docs := make([]entity.VectorDocument, len(chunks))
	for i, chunk := range chunks {
		docs[i] = entity.VectorDocument{
			ID:      uuid.New().String(),
			Content: chunk,
			Metadata: map[string]string{
				entity.MetaSource:    meta.Source,
				entity.MetaChatbotID: meta.ChatbotID,
				entity.MetaWebsiteID: meta.WebsiteID,
				entity.MetaWpID:      meta.WpID,
			},
		}
	}
	return docs
}

// BackfillTrainingID patches the training ID into documents minted before
// the training record existed.
func BackfillTrainingID(docs []entity.VectorDocument, trainingID string) {
	for i := range docs {
		docs[i].Metadata[entity.MetaTraining] = trainingID
	}
}

// IDs returns the minted IDs in document order.
func IDs(docs []entity.VectorDocument) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
