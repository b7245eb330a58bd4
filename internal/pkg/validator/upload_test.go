package validator_test

import (
	"mime/multipart"
	"testing"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func newValidator() *validator.Validator {
	return validator.NewFileValidator(config.FileUploadConfig{
		MaxFileSize:  1000,
		MaxTotalSize: 2500,
		MaxFileCount: 3,
		MaxImageSize: 500,
	})
}

func TestValidateUpload(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		files   []*multipart.FileHeader
		wantErr error
	}{
		{
			name:  "valid batch",
			files: []*multipart.FileHeader{header("faq.csv", 100), header("Manual.PDF", 900)},
		},
		{
			name:    "no files",
			files:   nil,
			wantErr: entity.ErrMissingField,
		},
		{
			name: "too many files",
			files: []*multipart.FileHeader{
				header("a.csv", 1), header("b.csv", 1), header("c.csv", 1), header("d.csv", 1),
			},
			wantErr: entity.ErrTooManyFiles,
		},
		{
			name:    "unsupported extension",
			files:   []*multipart.FileHeader{header("notes.txt", 100)},
			wantErr: entity.ErrInvalidExtension,
		},
		{
			name:    "file too large",
			files:   []*multipart.FileHeader{header("big.pdf", 1001)},
			wantErr: entity.ErrFileTooLarge,
		},
		{
			name: "total size too large",
			files: []*multipart.FileHeader{
				header("a.pdf", 900), header("b.pdf", 900), header("c.pdf", 900),
			},
			wantErr: entity.ErrTotalSizeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.files)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateImage(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateImage(header("logo.png", 400)))
	assert.NoError(t, v.ValidateImage(header("Logo.JPG", 400)))
	assert.ErrorIs(t, v.ValidateImage(header("logo.gif", 400)), entity.ErrInvalidExtension)
	assert.ErrorIs(t, v.ValidateImage(header("logo.png", 501)), entity.ErrFileTooLarge)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_report_v2.pdf", validator.SanitizeFilename("my report (v2).pdf"))
	assert.Equal(t, "passwd", validator.SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "data1.csv", validator.SanitizeFilename("data[1].csv"))
}
