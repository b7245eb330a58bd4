package chatbot

import (
	"context"
	"fmt"
	"time"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/cleanup"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/pkg/validator"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ChatbotUsecase implements chatbot business logic
type ChatbotUsecase struct {
	chatbotRepo  repository.ChatbotRepository
	trainingRepo repository.TrainingRepository
	websiteRepo  repository.WebsiteRepository
	blobStore    BlobStore
	vectors      VectorIndex
	extractors   *extractor.Registry
	chunker      *chunker.Chunker
	validator    *validator.Validator
	configCache  *gocache.Cache
	logger       *zap.Logger
}

func NewUsecase(
	chatbotRepo repository.ChatbotRepository,
	trainingRepo repository.TrainingRepository,
	websiteRepo repository.WebsiteRepository,
	blobStore BlobStore,
	vectors VectorIndex,
	extractors *extractor.Registry,
	chunker *chunker.Chunker,
	validator *validator.Validator,
	chatCfg config.ChatConfig,
	logger *zap.Logger,
) *ChatbotUsecase {
	return &ChatbotUsecase{
		chatbotRepo:  chatbotRepo,
		trainingRepo: trainingRepo,
		websiteRepo:  websiteRepo,
		blobStore:    blobStore,
		vectors:      vectors,
		extractors:   extractors,
		chunker:      chunker,
		validator:    validator,
		configCache:  gocache.New(chatCfg.ConfigCacheTTL, chatCfg.ConfigCacheCleanup),
		logger:       logger,
	}
}

func (uc *ChatbotUsecase) CreateChatbot(
	ctx context.Context,
	req *entity.CreateChatbotRequest,
) (*entity.Chatbot, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name", entity.ErrMissingField)
	}

	llm := entity.DefaultLLMSettings()
	if req.LLM != nil {
		if err := req.LLM.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		llm = *req.LLM
	}

	bot := entity.Chatbot{
		ID:                   uuid.New().String(),
		Name:                 req.Name,
		Description:          req.Description,
		Temperature:          req.Temperature,
		LLM:                  llm,
		Instructions:         req.Instructions,
		ConversationStarters: req.ConversationStarters,
		CreatedBy:            req.CreatorID,
	}

	if req.Picture != nil {
		key, err := uc.storePicture(ctx, req.Picture)
		if err != nil {
			return nil, err
		}
		bot.PictureKey = key
	}

	created, err := uc.chatbotRepo.Create(ctx, bot)
	if err != nil {
		// The picture blob is orphaned if record creation fails; remove it.
		if bot.PictureKey != "" {
			if delErr := uc.blobStore.Delete(ctx, bot.PictureKey); delErr != nil {
				ctxzap.Warn(ctx, "failed to remove picture after create failure", zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("create chatbot: %w", err)
	}

	ctxzap.Info(ctx, "chatbot created",
		zap.String("chatbot_id", created.ID),
		zap.String("name", created.Name),
	)

	return created, nil
}

func (uc *ChatbotUsecase) GetChatbot(ctx context.Context, id string) (*entity.Chatbot, error) {
	return uc.chatbotRepo.Get(ctx, id)
}

func (uc *ChatbotUsecase) ListChatbots(
	ctx context.Context,
	req *entity.ListChatbotsRequest,
) (*entity.ListChatbotsResponse, error) {
	req.Normalize()

	bots, total, err := uc.chatbotRepo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list chatbots: %w", err)
	}

	return &entity.ListChatbotsResponse{
		Chatbots:   toChatbotSummaries(bots),
		Pagination: entity.NewPagination(&req.ListRequest, total),
	}, nil
}

func (uc *ChatbotUsecase) UpdateChatbot(
	ctx context.Context,
	req *entity.UpdateChatbotRequest,
) (*entity.Chatbot, error) {
	bot, err := uc.chatbotRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	applyChatbotUpdate(bot, req)

	if err := bot.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	updated, err := uc.chatbotRepo.Update(ctx, *bot)
	if err != nil {
		return nil, fmt.Errorf("update chatbot: %w", err)
	}

	uc.InvalidateChatConfig(updated.ID)

	return updated, nil
}

// TogglePublish flips the published flag. Publishing stamps the time;
// unpublishing clears it.
func (uc *ChatbotUsecase) TogglePublish(ctx context.Context, id string) (*entity.PublishChatbotResponse, error) {
	bot, err := uc.chatbotRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	published := !bot.Published
	var publishedAt *time.Time
	if published {
		now := time.Now().UTC()
		publishedAt = &now
	}

	if err := uc.chatbotRepo.SetPublished(ctx, bot.ID, published, publishedAt); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}

	resp := &entity.PublishChatbotResponse{ID: bot.ID, Published: published}
	if publishedAt != nil {
		resp.PublishedAt = publishedAt.Format(time.RFC3339)
	}

	ctxzap.Info(ctx, "chatbot publish toggled",
		zap.String("chatbot_id", bot.ID),
		zap.Bool("published", published),
	)

	return resp, nil
}

// DeleteChatbot cascades across every store that holds data for the bot:
// chunk ids and blobs of each training, then the database record (the only
// fatal step; row deletion cascades to trainings, websites and wp posts),
// then a namespace sweep of both vector indexes to catch chunks the
// per-training deletes missed, and finally the picture blob.
func (uc *ChatbotUsecase) DeleteChatbot(ctx context.Context, id string) (*entity.DeleteChatbotResponse, error) {
	bot, err := uc.chatbotRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	trainings, err := uc.trainingRepo.ListAllByChatbot(ctx, bot.ID)
	if err != nil {
		return nil, fmt.Errorf("list trainings for deletion: %w", err)
	}

	exec := cleanup.NewExecutor()
	fields := []zap.Field{zap.String("chatbot_id", bot.ID)}

	for _, training := range trainings {
		training := training
		for _, file := range training.Files {
			file := file
			exec.Run(ctx, "delete training chunks", append(fields, zap.String("training_id", training.ID)), func() error {
				return uc.vectors.DeleteByIDs(ctx, vectorindex.IndexChatbot, bot.ID, file.DocumentIDs)
			})
			exec.Run(ctx, "delete training blob", append(fields, zap.String("blob_key", file.BlobKey)), func() error {
				return uc.blobStore.Delete(ctx, file.BlobKey)
			})
		}
	}

	if err := uc.chatbotRepo.Delete(ctx, bot.ID); err != nil {
		return nil, fmt.Errorf("delete chatbot record: %w", err)
	}

	exec.Run(ctx, "sweep chatbot namespace", fields, func() error {
		return uc.vectors.DeleteNamespace(ctx, vectorindex.IndexChatbot, bot.ID)
	})
	exec.Run(ctx, "sweep wp post namespace", fields, func() error {
		return uc.vectors.DeleteNamespace(ctx, vectorindex.IndexWpPost, bot.ID)
	})

	if bot.PictureKey != "" {
		exec.Run(ctx, "delete picture blob", fields, func() error {
			return uc.blobStore.Delete(ctx, bot.PictureKey)
		})
	}

	uc.InvalidateChatConfig(bot.ID)
	exec.Report(ctx, "chatbot", fields...)

	return &entity.DeleteChatbotResponse{Status: "deleted"}, nil
}
