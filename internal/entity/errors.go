package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Chatbot errors
	ErrChatbotNotFound     = errors.New("chatbot not found")
	ErrWebsiteNotConnected = errors.New("website is not connected to chatbot")

	// Training errors
	ErrTrainingNotFound = errors.New("training not found")
	ErrNoUsableFiles    = errors.New("no files could be processed")

	// Website errors
	ErrWebsiteNotFound = errors.New("website not found")
	ErrWpPostNotFound  = errors.New("wp post not found")

	// File errors
	ErrInvalidFile         = errors.New("invalid file")
	ErrFileTooLarge        = errors.New("file too large")
	ErrTooManyFiles        = errors.New("too many files")
	ErrInvalidExtension    = errors.New("invalid file extension")
	ErrTotalSizeTooLarge   = errors.New("total file size too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrBlobNotFound        = errors.New("blob not found")

	// Chat errors
	ErrMissingAPIKey = errors.New("llm api key is not configured")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ExtractionError reports that a single source file could not be turned
// into text. It carries the source name so batch callers can report which
// file failed without aborting the rest of the batch.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps err as an extraction failure for the given source.
func NewExtractionError(source string, err error) *ExtractionError {
	return &ExtractionError{Source: source, Err: err}
}
