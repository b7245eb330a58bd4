package website

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/cleanup"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// WebsiteUsecase manages chatbot deployments on external websites and the
// synced content pushed from them.
type WebsiteUsecase struct {
	websiteRepo repository.WebsiteRepository
	chatbotRepo repository.ChatbotRepository
	wpPostRepo  repository.WpPostRepository
	vectors     VectorIndex
	invalidator ConfigInvalidator
	html        *extractor.HTMLExtractor
	chunker     *chunker.Chunker
	logger      *zap.Logger
}

func NewUsecase(
	websiteRepo repository.WebsiteRepository,
	chatbotRepo repository.ChatbotRepository,
	wpPostRepo repository.WpPostRepository,
	vectors VectorIndex,
	invalidator ConfigInvalidator,
	chunker *chunker.Chunker,
	logger *zap.Logger,
) *WebsiteUsecase {
	return &WebsiteUsecase{
		websiteRepo: websiteRepo,
		chatbotRepo: chatbotRepo,
		wpPostRepo:  wpPostRepo,
		vectors:     vectors,
		invalidator: invalidator,
		html:        extractor.NewHTMLExtractor(),
		chunker:     chunker,
		logger:      logger,
	}
}

// CreateWebsite connects a website to a chatbot. Override fields start as a
// copy of the bot's own settings so the site behaves identically until edited.
func (uc *WebsiteUsecase) CreateWebsite(
	ctx context.Context,
	req *entity.CreateWebsiteRequest,
) (*entity.Website, error) {
	if req.DomainName == "" {
		return nil, fmt.Errorf("%w: domain_name", entity.ErrMissingField)
	}

	bot, err := uc.chatbotRepo.Get(ctx, req.ChatbotID)
	if err != nil {
		return nil, err
	}

	site := entity.Website{
		ID:                   uuid.New().String(),
		ChatbotID:            bot.ID,
		Name:                 req.Name,
		DomainName:           req.DomainName,
		Description:          req.Description,
		Temperature:          bot.Temperature,
		LLM:                  bot.LLM,
		Instructions:         bot.Instructions,
		ConversationStarters: bot.ConversationStarters,
		CreatedBy:            req.CreatorID,
	}
	if site.Name == "" {
		site.Name = bot.Name
	}
	if site.Description == "" {
		site.Description = bot.Description
	}

	created, err := uc.websiteRepo.Create(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("create website: %w", err)
	}

	if err := uc.chatbotRepo.AddConnectedWebsite(ctx, bot.ID, created.ID); err != nil {
		if delErr := uc.websiteRepo.Delete(ctx, created.ID); delErr != nil {
			ctxzap.Error(ctx, "failed to roll back website after connect failure",
				zap.String("website_id", created.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("connect website to chatbot: %w", err)
	}

	ctxzap.Info(ctx, "website connected",
		zap.String("website_id", created.ID),
		zap.String("chatbot_id", bot.ID),
		zap.String("domain", created.DomainName),
	)

	return created, nil
}

func (uc *WebsiteUsecase) GetWebsite(ctx context.Context, id string) (*entity.Website, error) {
	return uc.websiteRepo.Get(ctx, id)
}

func (uc *WebsiteUsecase) ListWebsites(
	ctx context.Context,
	req *entity.ListWebsitesRequest,
) (*entity.ListWebsitesResponse, error) {
	if _, err := uc.chatbotRepo.Get(ctx, req.ChatbotID); err != nil {
		return nil, err
	}

	req.Normalize()

	sites, total, err := uc.websiteRepo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}

	summaries := make([]*entity.WebsiteSummary, 0, len(sites))
	for _, s := range sites {
		summaries = append(summaries, &entity.WebsiteSummary{
			ID:         s.ID,
			Name:       s.Name,
			DomainName: s.DomainName,
			CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		})
	}

	return &entity.ListWebsitesResponse{
		Websites:   summaries,
		Pagination: entity.NewPagination(&req.ListRequest, total),
	}, nil
}

func (uc *WebsiteUsecase) UpdateWebsite(
	ctx context.Context,
	req *entity.UpdateWebsiteRequest,
) (*entity.Website, error) {
	site, err := uc.websiteRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Description != nil {
		site.Description = *req.Description
	}
	if req.Temperature != nil {
		site.Temperature = *req.Temperature
	}
	if req.Instructions != nil {
		site.Instructions = *req.Instructions
	}
	if req.ConversationStarters != nil {
		site.ConversationStarters = req.ConversationStarters
	}
	if req.LLM != nil {
		if err := req.LLM.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		site.LLM = *req.LLM
	}

	updated, err := uc.websiteRepo.Update(ctx, *site)
	if err != nil {
		return nil, fmt.Errorf("update website: %w", err)
	}

	uc.invalidator.InvalidateChatConfig(updated.ChatbotID)

	return updated, nil
}

// DeleteWebsite cascades: the synced posts' vector chunks are removed
// best-effort, then the website record (fatal; row deletion cascades to the
// wp_posts rows), then the website id is pulled from the parent bot's
// connected list.
func (uc *WebsiteUsecase) DeleteWebsite(ctx context.Context, id string) (*entity.DeleteWebsiteResponse, error) {
	site, err := uc.websiteRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := uc.wpPostRepo.ListByWebsite(ctx, site.ID)
	if err != nil {
		return nil, fmt.Errorf("list synced posts for deletion: %w", err)
	}

	exec := cleanup.NewExecutor()
	fields := []zap.Field{
		zap.String("website_id", site.ID),
		zap.String("chatbot_id", site.ChatbotID),
	}

	for _, post := range posts {
		post := post
		exec.Run(ctx, "delete post chunks", append(fields, zap.String("post_id", post.ID)), func() error {
			return uc.vectors.DeleteByIDs(ctx, vectorindex.IndexWpPost, site.ChatbotID, post.DocumentIDs)
		})
	}

	if err := uc.websiteRepo.Delete(ctx, site.ID); err != nil {
		return nil, fmt.Errorf("delete website record: %w", err)
	}

	exec.Run(ctx, "disconnect from chatbot", fields, func() error {
		err := uc.chatbotRepo.RemoveConnectedWebsite(ctx, site.ChatbotID, site.ID)
		if errors.Is(err, entity.ErrChatbotNotFound) {
			return nil
		}
		return err
	})

	uc.invalidator.InvalidateChatConfig(site.ChatbotID)
	exec.Report(ctx, "website", fields...)

	return &entity.DeleteWebsiteResponse{Status: "deleted"}, nil
}
