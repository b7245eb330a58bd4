package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

// DOCXExtractor extracts text from Word documents, one block per paragraph.
type DOCXExtractor struct{}

func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

func (e *DOCXExtractor) Extract(ctx context.Context, data []byte, source string) (*Result, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, entity.NewExtractionError(source, err)
	}
	defer doc.Close()

	var paragraphs []string
	for _, para := range doc.Paragraphs() {
		var sb strings.Builder
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		if text := sb.String(); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return &Result{
		Text: strings.Join(paragraphs, "\n\n"),
		Metadata: Metadata{
			Source: source,
		},
	}, nil
}
