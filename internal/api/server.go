package api

import (
	"net/http"
	"time"

	chatapi "github.com/botforge/chatbot-backend/internal/api/chat"
	chatbotapi "github.com/botforge/chatbot-backend/internal/api/chatbot"
	"github.com/botforge/chatbot-backend/internal/api/docs"
	"github.com/botforge/chatbot-backend/internal/api/middleware"
	trainingapi "github.com/botforge/chatbot-backend/internal/api/training"
	uploadapi "github.com/botforge/chatbot-backend/internal/api/upload"
	websiteapi "github.com/botforge/chatbot-backend/internal/api/website"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every route group the router serves.
type Handlers struct {
	Chatbot  *chatbotapi.Handler
	Training *trainingapi.Handler
	Website  *websiteapi.Handler
	Chat     *chatapi.Handler
	Upload   *uploadapi.Handler
}

// SetupRouter creates and configures the HTTP router. Dashboard and sync
// routes sit behind session auth; the chat widget routes are public, since
// they are called from end-user browsers.
func SetupRouter(h Handlers, sessions middleware.SessionResolver, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(120 * time.Second)) // chat turns can be slow

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Public routes
	chatapi.RegisterRoutes(r, h.Chat)

	// Authenticated dashboard routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessions))

		chatbotapi.RegisterRoutes(r, h.Chatbot)
		trainingapi.RegisterRoutes(r, h.Training)
		websiteapi.RegisterRoutes(r, h.Website)
		uploadapi.RegisterRoutes(r, h.Upload)
	})

	return r
}
