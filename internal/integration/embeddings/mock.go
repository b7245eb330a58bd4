package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockDimensions = 64

// MockConnector produces deterministic embeddings from a content hash.
// Identical texts embed identically, so similarity search stays exact-match
// meaningful in local development without an embedding API.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding documents", zap.Int("count", len(texts)))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

func (m *MockConnector) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return hashVector(text), nil
}

// hashVector expands a sha256 digest into a unit-length vector.
func hashVector(text string) []float32 {
	digest := sha256.Sum256([]byte(text))

	vector := make([]float32, mockDimensions)
	var norm float64
	for i := range vector {
		// Re-hash the digest with the index to fill all dimensions.
		seed := sha256.Sum256(append(digest[:], byte(i)))
		raw := binary.BigEndian.Uint32(seed[:4])
		vector[i] = float32(raw%2000)/1000.0 - 1.0
		norm += float64(vector[i]) * float64(vector[i])
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}

	return vector
}
