package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/pkg/logger"
	"github.com/botforge/chatbot-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler stages training files in the blob store ahead of training
// creation, which references them by the returned keys.
type Handler struct {
	blobStore BlobStore
	validator *validator.Validator
	cfg       config.FileUploadConfig
}

func NewHandler(blobStore BlobStore, validator *validator.Validator, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		blobStore: blobStore,
		validator: validator,
		cfg:       cfg,
	}
}

// UploadFiles handles POST /uploads
func (h *Handler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadFiles")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}

	files := r.MultipartForm.File["files"]
	if err := h.validator.ValidateUpload(files); err != nil {
		h.handleUploadError(ctx, w, err)
		return
	}

	uploaded := make([]entity.UploadedFile, 0, len(files))
	for _, fh := range files {
		key, err := h.storeFile(ctx, fh)
		if err != nil {
			ctxzap.Error(ctx, "failed to store uploaded file",
				zap.String("filename", fh.Filename), zap.Error(err))
			h.respondError(ctx, w, http.StatusInternalServerError, "failed to store file", err)
			return
		}
		uploaded = append(uploaded, entity.UploadedFile{
			Name:    fh.Filename,
			BlobKey: key,
			Size:    fh.Size,
		})
	}

	ctxzap.Info(ctx, "files uploaded successfully", zap.Int("count", len(uploaded)))
	h.respondJSON(w, http.StatusCreated, &entity.UploadFilesResponse{Files: uploaded})
}

func (h *Handler) storeFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return h.blobStore.Put(ctx, blob.CategoryDocuments, validator.SanitizeFilename(fh.Filename), data)
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUploadError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFile) ||
		errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrTooManyFiles) ||
		errors.Is(err, entity.ErrInvalidExtension) || errors.Is(err, entity.ErrTotalSizeTooLarge) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
		return
	}
	h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
}
