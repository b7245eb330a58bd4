package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase  ChatUsecase
	resolver ConfigResolver
}

func NewHandler(usecase ChatUsecase, resolver ConfigResolver) *Handler {
	return &Handler{
		usecase:  usecase,
		resolver: resolver,
	}
}

// GetConfig handles GET /chat/config. The widget fetches this before the
// first message to render name, starters and styling.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetChatConfig")

	chatbotID := r.URL.Query().Get("chatbot_id")
	if chatbotID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "chatbot_id query parameter is required", nil)
		return
	}
	websiteID := r.URL.Query().Get("website_id")

	cfg, err := h.resolver.ResolveChatConfig(ctx, chatbotID, websiteID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, cfg)
}

// ChatTurn handles POST /chat. The answer streams back token by token;
// errors before the first token are ordinary JSON error responses.
func (h *Handler) ChatTurn(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatTurn")

	var req entity.ChatTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "answering chat turn",
		zap.String("chatbot_id", req.ChatbotID),
		zap.Int("history_len", len(req.History)),
	)

	stream := newStreamWriter(w)

	err := h.usecase.AnswerChatTurn(ctx, &req, stream.Emit)
	if err != nil {
		if stream.Started() {
			// Headers are gone; all we can do is cut the stream.
			ctxzap.Error(ctx, "chat stream aborted", zap.Error(err))
			return
		}
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat turn answered")
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
	} else if errors.Is(err, entity.ErrMissingAPIKey) {
		h.respondError(ctx, w, http.StatusBadRequest, "llm provider is not configured", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrInvalidParameter) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
