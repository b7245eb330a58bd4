// Package chunker splits extracted text into overlapping chunks suitable
// for embedding. Splitting is deterministic: the same input always yields
// the same chunk sequence.
package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 50
)

// siteSeparators favors the structural markers WordPress themes leave in
// rendered post text over plain sentence boundaries.
var siteSeparators = []string{" ", ",", "\n", "|", "##", ">", "-"}

type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

func New() *Chunker {
	return &Chunker{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
	}
}

// SplitDocument splits extracted file text with the default separator set.
// Empty or whitespace-only input yields zero chunks.
func (c *Chunker) SplitDocument(text string) ([]string, error) {
	return c.split(text, nil)
}

// SplitSiteContent splits stripped post content with the site separator
// profile and drops duplicate chunks, keeping the first occurrence.
// Navigation and footer fragments repeat on every page of a site; without
// the dedup they would dominate retrieval.
func (c *Chunker) SplitSiteContent(text string) ([]string, error) {
	chunks, err := c.split(text, siteSeparators)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(chunks))
	unique := chunks[:0]
	for _, chunk := range chunks {
		if seen[chunk] {
			continue
		}
		seen[chunk] = true
		unique = append(unique, chunk)
	}

	return unique, nil
}

func (c *Chunker) split(text string, separators []string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	opts := []textsplitter.Option{
		textsplitter.WithChunkSize(c.chunkSize),
		textsplitter.WithChunkOverlap(c.chunkOverlap),
	}
	if len(separators) > 0 {
		opts = append(opts, textsplitter.WithSeparators(separators))
	}

	splitter := textsplitter.NewRecursiveCharacter(opts...)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	return chunks, nil
}
