package training

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/botforge/chatbot-backend/internal/api/middleware"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase TrainingUsecase
}

func NewHandler(usecase TrainingUsecase) *Handler {
	return &Handler{usecase: usecase}
}

type createTrainingBody struct {
	ChatbotID   string   `json:"chatbot_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BlobKeys    []string `json:"blob_keys"`
}

// CreateTraining handles POST /trainings
func (h *Handler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateTraining")

	var body createTrainingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if body.ChatbotID == "" || body.Name == "" || body.Description == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "chatbot_id, name and description are required", nil)
		return
	}
	if len(body.BlobKeys) == 0 {
		h.respondError(ctx, w, http.StatusBadRequest, "at least one uploaded file is required", nil)
		return
	}

	req := entity.CreateTrainingRequest{
		ChatbotID:   body.ChatbotID,
		Name:        body.Name,
		Description: body.Description,
		BlobKeys:    body.BlobKeys,
		CreatorID:   middleware.UserID(ctx),
	}

	ctxzap.Info(ctx, "creating training",
		zap.String("chatbot_id", req.ChatbotID),
		zap.Int("file_count", len(req.BlobKeys)),
	)

	resp, err := h.usecase.CreateTraining(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "training created successfully", zap.String("training_id", resp.TrainingID))
	h.respondJSON(w, http.StatusCreated, resp)
}

// ListTrainings handles GET /trainings
func (h *Handler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListTrainings")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListTrainingsRequest{
		ListRequest: entity.ListRequest{
			Page:   page,
			Limit:  limit,
			Search: r.URL.Query().Get("search"),
		},
		ChatbotID: r.URL.Query().Get("chatbot_id"),
	}
	if req.ChatbotID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "chatbot_id query parameter is required", nil)
		return
	}

	resp, err := h.usecase.ListTrainings(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "trainings listed successfully", zap.Int("count", len(resp.Trainings)))
	h.respondJSON(w, http.StatusOK, resp)
}

// GetTraining handles GET /trainings/{training_id}
func (h *Handler) GetTraining(w http.ResponseWriter, r *http.Request) {
	trainingID := chi.URLParam(r, "training_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("training_id", trainingID),
		zap.String("action", "GetTraining"),
	)

	training, err := h.usecase.GetTraining(ctx, trainingID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, training)
}

// DeleteTraining handles DELETE /trainings/{training_id}
func (h *Handler) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	trainingID := chi.URLParam(r, "training_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("training_id", trainingID),
		zap.String("action", "DeleteTraining"),
	)

	ctxzap.Info(ctx, "deleting training")

	resp, err := h.usecase.DeleteTraining(ctx, trainingID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "training deleted successfully")
	h.respondJSON(w, http.StatusOK, resp)
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

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrChatbotNotFound) || errors.Is(err, entity.ErrTrainingNotFound) || errors.Is(err, entity.ErrBlobNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrNoUsableFiles) {
		h.respondError(ctx, w, http.StatusBadRequest, "no file could be processed", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
