package website

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
	usecase WebsiteUsecase
}

func NewHandler(usecase WebsiteUsecase) *Handler {
	return &Handler{usecase: usecase}
}

type createWebsiteBody struct {
	ChatbotID   string `json:"chatbot_id"`
	Name        string `json:"name"`
	DomainName  string `json:"domain_name"`
	Description string `json:"description"`
}

// CreateWebsite handles POST /websites
func (h *Handler) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateWebsite")

	var body createWebsiteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	req := entity.CreateWebsiteRequest{
		ChatbotID:   body.ChatbotID,
		Name:        body.Name,
		DomainName:  body.DomainName,
		Description: body.Description,
		CreatorID:   middleware.UserID(ctx),
	}

	ctxzap.Info(ctx, "connecting website",
		zap.String("chatbot_id", req.ChatbotID),
		zap.String("domain", req.DomainName),
	)

	site, err := h.usecase.CreateWebsite(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "website connected successfully", zap.String("website_id", site.ID))
	h.respondJSON(w, http.StatusCreated, site)
}

// ListWebsites handles GET /websites
func (h *Handler) ListWebsites(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListWebsites")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	req := entity.ListWebsitesRequest{
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

	resp, err := h.usecase.ListWebsites(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "websites listed successfully", zap.Int("count", len(resp.Websites)))
	h.respondJSON(w, http.StatusOK, resp)
}

// GetWebsite handles GET /websites/{website_id}
func (h *Handler) GetWebsite(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "website_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("website_id", websiteID),
		zap.String("action", "GetWebsite"),
	)

	site, err := h.usecase.GetWebsite(ctx, websiteID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, site)
}

// UpdateWebsite handles PUT /websites/{website_id}
func (h *Handler) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "website_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("website_id", websiteID),
		zap.String("action", "UpdateWebsite"),
	)

	var req entity.UpdateWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.ID = websiteID

	site, err := h.usecase.UpdateWebsite(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "website updated successfully")
	h.respondJSON(w, http.StatusOK, site)
}

// DeleteWebsite handles DELETE /websites/{website_id}
func (h *Handler) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "website_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("website_id", websiteID),
		zap.String("action", "DeleteWebsite"),
	)

	ctxzap.Info(ctx, "deleting website")

	resp, err := h.usecase.DeleteWebsite(ctx, websiteID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "website deleted successfully")
	h.respondJSON(w, http.StatusOK, resp)
}

type syncWpPostBody struct {
	ChatbotID string `json:"chatbot_id"`
	WebsiteID string `json:"website_id"`
	WpID      string `json:"wp_id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
}

// SyncWpPost handles POST /wp-sync, called by the WordPress plugin whenever
// a post is published or updated.
func (h *Handler) SyncWpPost(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SyncWpPost")

	var body syncWpPostBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	req := entity.SyncWpPostRequest{
		ChatbotID: body.ChatbotID,
		WebsiteID: body.WebsiteID,
		WpID:      body.WpID,
		Title:     body.Title,
		HTML:      body.HTML,
	}

	ctxzap.Info(ctx, "syncing wp post",
		zap.String("website_id", req.WebsiteID),
		zap.String("wp_id", req.WpID),
	)

	resp, err := h.usecase.SyncWpPost(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "wp post synced successfully", zap.String("post_id", resp.PostID))
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
	if errors.Is(err, entity.ErrChatbotNotFound) || errors.Is(err, entity.ErrWebsiteNotFound) || errors.Is(err, entity.ErrWpPostNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
