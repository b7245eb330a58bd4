package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/botforge/chatbot-backend/internal/api"
	chatapi "github.com/botforge/chatbot-backend/internal/api/chat"
	chatbotapi "github.com/botforge/chatbot-backend/internal/api/chatbot"
	"github.com/botforge/chatbot-backend/internal/api/middleware"
	trainingapi "github.com/botforge/chatbot-backend/internal/api/training"
	uploadapi "github.com/botforge/chatbot-backend/internal/api/upload"
	websiteapi "github.com/botforge/chatbot-backend/internal/api/website"
	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/integration/auth"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/integration/embeddings"
	"github.com/botforge/chatbot-backend/internal/integration/llm"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/pkg/validator"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/botforge/chatbot-backend/internal/usecase/chat"
	"github.com/botforge/chatbot-backend/internal/usecase/chatbot"
	"github.com/botforge/chatbot-backend/internal/usecase/training"
	"github.com/botforge/chatbot-backend/internal/usecase/website"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := repository.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	chatbotRepo := repository.NewChatbotPostgres(db)
	trainingRepo := repository.NewTrainingPostgres(db)
	websiteRepo := repository.NewWebsitePostgres(db)
	wpPostRepo := repository.NewWpPostPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var embedder vectorindex.Embedder
	var llmConnector chat.LLMConnector
	var sessions middleware.SessionResolver

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embedder = embeddings.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
		sessions = auth.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embedder, err = embeddings.NewConnector(cfg.EmbeddingsCfg, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create embeddings connector: %w", err)
		}
		llmConnector, err = llm.NewConnector(cfg.LLMCfg, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create llm connector: %w", err)
		}
		sessions = auth.NewConnector(cfg.AuthCfg, logger)
	}

	// Initialize local stores
	vectors, err := vectorindex.NewChromemStore(cfg.VectorStoreCfg, embedder, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	blobStore, err := blob.NewFilesystemStore(cfg.BlobStoreCfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	logger.Info("Local stores initialized")

	// Initialize pipeline components
	extractors := extractor.NewRegistry()
	textChunker := chunker.New()
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	// Initialize use cases
	chatbotUC := chatbot.NewUsecase(
		chatbotRepo,
		trainingRepo,
		websiteRepo,
		blobStore,
		vectors,
		extractors,
		textChunker,
		fileValidator,
		cfg.ChatCfg,
		logger,
	)

	trainingUC := training.NewUsecase(
		trainingRepo,
		chatbotRepo,
		blobStore,
		vectors,
		extractors,
		textChunker,
		logger,
	)

	websiteUC := website.NewUsecase(
		websiteRepo,
		chatbotRepo,
		wpPostRepo,
		vectors,
		chatbotUC,
		textChunker,
		logger,
	)

	chatUC := chat.NewUsecase(
		llmConnector,
		vectors,
		chatbotUC,
		cfg.LLMCfg,
		cfg.ChatCfg,
		cfg.EnableMocks,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	handlers := api.Handlers{
		Chatbot:  chatbotapi.NewHandler(chatbotUC, cfg.FileUploadCfg),
		Training: trainingapi.NewHandler(trainingUC),
		Website:  websiteapi.NewHandler(websiteUC),
		Chat:     chatapi.NewHandler(chatUC, chatbotUC),
		Upload:   uploadapi.NewHandler(blobStore, fileValidator, cfg.FileUploadCfg),
	}
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(handlers, sessions, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. No WriteTimeout: chat responses stream for as
	// long as the model keeps producing tokens.
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
