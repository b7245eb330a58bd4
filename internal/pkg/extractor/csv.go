package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/botforge/chatbot-backend/internal/entity"
)

// CSVExtractor renders tabular data as text, one line per row. With a
// column restriction only the named columns survive, which keeps noisy
// export columns out of the knowledge base.
type CSVExtractor struct {
	columns []string
}

func NewCSVExtractor(columns ...string) *CSVExtractor {
	return &CSVExtractor{columns: columns}
}

func (e *CSVExtractor) Extract(ctx context.Context, data []byte, source string) (*Result, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{Metadata: Metadata{Source: source}}, nil
		}
		return nil, entity.NewExtractionError(source, err)
	}

	keep := make(map[string]bool, len(e.columns))
	for _, c := range e.columns {
		keep[c] = true
	}

	var lines []string
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, entity.NewExtractionError(source, err)
		}

		var cells []string
		for i, value := range record {
			if i >= len(header) {
				break
			}
			if len(keep) > 0 && !keep[header[i]] {
				continue
			}
			cells = append(cells, fmt.Sprintf("%s: %s", header[i], value))
		}
		if len(cells) == 0 {
			continue
		}

		lines = append(lines, strings.Join(cells, ", "))
		rows++
	}

	return &Result{
		Text: strings.Join(lines, "\n"),
		Metadata: Metadata{
			Source: source,
			Rows:   rows,
		},
	}, nil
}
