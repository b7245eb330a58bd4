// Package extractor turns uploaded source files into plain text for chunking.
package extractor

import (
	"context"
	"path/filepath"
	"strings"
)

// Metadata describes provenance of extracted text. Zero values mean the
// source format does not carry that attribute.
type Metadata struct {
	Source    string
	PageCount int
	Rows      int

	// Document info embedded in the file, when the format carries it.
	// CreationDate keeps the source's own date encoding.
	Author       string
	Title        string
	CreationDate string
}

// Result is the outcome of a successful extraction.
type Result struct {
	Text     string
	Metadata Metadata
}

// Extractor converts one file format into plain text.
// Malformed content yields *entity.ExtractionError.
type Extractor interface {
	Extract(ctx context.Context, data []byte, source string) (*Result, error)
}

// Registry resolves extractors by declared file extension. Formats are
// registered once at construction; lookup is by the lowercased extension
// of the file name.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry with all supported document formats.
func NewRegistry() *Registry {
	return &Registry{
		byExt: map[string]Extractor{
			".pdf":  NewPDFExtractor(),
			".docx": NewDOCXExtractor(),
			".csv":  NewCSVExtractor(),
		},
	}
}

// ForFilename resolves the extractor for the given file name.
// The second return value is false for unsupported extensions; callers
// skip such files rather than failing the batch.
func (r *Registry) ForFilename(name string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	e, ok := r.byExt[ext]
	return e, ok
}

// Supported reports whether the registry can extract the given file name.
func (r *Registry) Supported(name string) bool {
	_, ok := r.ForFilename(name)
	return ok
}
