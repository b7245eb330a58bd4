package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/dslipak/pdf"
	"github.com/tmc/langchaingo/documentloaders"
)

// PDFExtractor extracts text from PDF files, one block per page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte, source string) (*Result, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, entity.NewExtractionError(source, err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.PageContent == "" {
			continue
		}
		pages = append(pages, doc.PageContent)
	}

	meta := Metadata{
		Source:    source,
		PageCount: len(docs),
	}
	// The loader already parsed these bytes, so a second read for the
	// info dictionary is safe. Missing entries stay empty.
	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if info := r.Trailer().Key("Info"); !info.IsNull() {
			meta.Author = info.Key("Author").Text()
			meta.Title = info.Key("Title").Text()
			meta.CreationDate = info.Key("CreationDate").Text()
		}
	}

	return &Result{
		Text:     strings.Join(pages, "\n\n"),
		Metadata: meta,
	}, nil
}
