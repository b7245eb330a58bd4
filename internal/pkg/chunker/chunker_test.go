package chunker_test

import (
	"strings"
	"testing"

	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDocumentDeterministic(t *testing.T) {
	c := chunker.New()
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	first, err := c.SplitDocument(text)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := c.SplitDocument(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplitDocumentEmptyInput(t *testing.T) {
	c := chunker.New()

	for _, text := range []string{"", "   ", "\n\t\n"} {
		chunks, err := c.SplitDocument(text)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestSplitDocumentShortTextSingleChunk(t *testing.T) {
	c := chunker.New()

	chunks, err := c.SplitDocument("just a short sentence")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short sentence", chunks[0])
}

func TestSplitDocumentRespectsChunkSize(t *testing.T) {
	c := chunker.New()
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta. ", 300)

	chunks, err := c.SplitDocument(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}
}

func TestSplitSiteContentDropsDuplicates(t *testing.T) {
	c := chunker.New()

	// Navigation-like fragments repeat; content differs.
	nav := strings.Repeat("Home | About | Contact | Blog ", 40)
	body := strings.Repeat("Our return policy lasts thirty days from purchase. ", 30)
	text := nav + "\n" + body + "\n" + nav

	chunks, err := c.SplitSiteContent(text)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, chunk := range chunks {
		seen[chunk]++
	}
	for chunk, count := range seen {
		assert.Equal(t, 1, count, "chunk appears more than once: %q", chunk)
	}
}

func TestSplitSiteContentKeepsFirstOccurrenceOrder(t *testing.T) {
	c := chunker.New()

	chunks, err := c.SplitSiteContent("unique leading text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "unique leading text", chunks[0])
}
