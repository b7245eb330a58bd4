package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/botforge/chatbot-backend/internal/api/middleware"
	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatbotUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase ChatbotUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// CreateChatbot handles POST /chatbots
func (h *Handler) CreateChatbot(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateChatbot")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}

	req := entity.CreateChatbotRequest{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Instructions: r.FormValue("instructions"),
		CreatorID:    middleware.UserID(ctx),
	}

	if v := r.FormValue("temperature"); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "temperature must be a number", err)
			return
		}
		req.Temperature = temp
	}

	if v := r.FormValue("conversation_starters"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.ConversationStarters); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "conversation_starters must be a JSON array", err)
			return
		}
	}

	if v := r.FormValue("llm"); v != "" {
		var llm entity.LLMSettings
		if err := json.Unmarshal([]byte(v), &llm); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "llm must be a JSON object", err)
			return
		}
		req.LLM = &llm
	}

	if pictures := r.MultipartForm.File["picture"]; len(pictures) > 0 {
		req.Picture = pictures[0]
	}

	ctxzap.Info(ctx, "creating chatbot", zap.String("name", req.Name))

	bot, err := h.usecase.CreateChatbot(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chatbot created successfully", zap.String("chatbot_id", bot.ID))
	h.respondJSON(w, http.StatusCreated, toChatbotDetail(bot))
}

// ListChatbots handles GET /chatbots
func (h *Handler) ListChatbots(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListChatbots")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListChatbotsRequest{
		ListRequest: entity.ListRequest{
			Page:   page,
			Limit:  limit,
			Search: r.URL.Query().Get("search"),
		},
		CreatorID: middleware.UserID(ctx),
	}

	resp, err := h.usecase.ListChatbots(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chatbots listed successfully", zap.Int("count", len(resp.Chatbots)))
	h.respondJSON(w, http.StatusOK, resp)
}

// GetChatbot handles GET /chatbots/{chatbot_id}
func (h *Handler) GetChatbot(w http.ResponseWriter, r *http.Request) {
	chatbotID := chi.URLParam(r, "chatbot_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("chatbot_id", chatbotID),
		zap.String("action", "GetChatbot"),
	)

	bot, err := h.usecase.GetChatbot(ctx, chatbotID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toChatbotDetail(bot))
}

// UpdateChatbot handles PUT /chatbots/{chatbot_id}
func (h *Handler) UpdateChatbot(w http.ResponseWriter, r *http.Request) {
	chatbotID := chi.URLParam(r, "chatbot_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("chatbot_id", chatbotID),
		zap.String("action", "UpdateChatbot"),
	)

	var req entity.UpdateChatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.ID = chatbotID

	bot, err := h.usecase.UpdateChatbot(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chatbot updated successfully")
	h.respondJSON(w, http.StatusOK, toChatbotDetail(bot))
}

// TogglePublish handles POST /chatbots/{chatbot_id}/publish
func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	chatbotID := chi.URLParam(r, "chatbot_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("chatbot_id", chatbotID),
		zap.String("action", "TogglePublish"),
	)

	resp, err := h.usecase.TogglePublish(ctx, chatbotID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// CloneChatbot handles POST /chatbots/{chatbot_id}/clone
func (h *Handler) CloneChatbot(w http.ResponseWriter, r *http.Request) {
	chatbotID := chi.URLParam(r, "chatbot_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("chatbot_id", chatbotID),
		zap.String("action", "CloneChatbot"),
	)

	ctxzap.Info(ctx, "cloning chatbot")

	resp, err := h.usecase.CloneChatbot(ctx, chatbotID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chatbot cloned successfully", zap.String("clone_id", resp.ID))
	h.respondJSON(w, http.StatusCreated, resp)
}

// DeleteChatbot handles DELETE /chatbots/{chatbot_id}
func (h *Handler) DeleteChatbot(w http.ResponseWriter, r *http.Request) {
	chatbotID := chi.URLParam(r, "chatbot_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("chatbot_id", chatbotID),
		zap.String("action", "DeleteChatbot"),
	)

	ctxzap.Info(ctx, "deleting chatbot")

	resp, err := h.usecase.DeleteChatbot(ctx, chatbotID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chatbot deleted successfully")
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
	if errors.Is(err, entity.ErrChatbotNotFound) || errors.Is(err, entity.ErrWebsiteNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrWebsiteNotConnected) {
		h.respondError(ctx, w, http.StatusBadRequest, "website is not connected to this chatbot", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrInvalidExtension) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
