package website

import (
	"context"
	"errors"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/docid"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SyncWpPost ingests one WordPress post pushed by the wp plugin. A post is
// identified by (website, wpId); syncing an already-known post replaces its
// chunks. Removal of the previous version is best-effort: a failure there
// leaves orphaned vectors but never blocks fresh content from landing.
// Concurrent syncs of the same post are last-writer-wins.
func (uc *WebsiteUsecase) SyncWpPost(
	ctx context.Context,
	req *entity.SyncWpPostRequest,
) (*entity.SyncWpPostResponse, error) {
	if req.WpID == "" {
		return nil, fmt.Errorf("%w: wp_id", entity.ErrMissingField)
	}

	bot, err := uc.chatbotRepo.Get(ctx, req.ChatbotID)
	if err != nil {
		return nil, err
	}

	site, err := uc.websiteRepo.Get(ctx, req.WebsiteID)
	if err != nil {
		return nil, err
	}

	replaced := uc.removePreviousVersion(ctx, bot.ID, site.ID, req.WpID)

	extracted, err := uc.html.Extract(ctx, []byte(req.HTML), req.Title)
	if err != nil {
		return nil, fmt.Errorf("strip post markup: %w", err)
	}

	chunks, err := uc.chunker.SplitSiteContent(extracted.Text)
	if err != nil {
		return nil, fmt.Errorf("chunk post content: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: post has no extractable text", entity.ErrInvalidParameter)
	}

	docs := docid.MintPostChunks(chunks, docid.PostMeta{
		Source:    req.Title,
		ChatbotID: bot.ID,
		WebsiteID: site.ID,
		WpID:      req.WpID,
	})

	if err := uc.vectors.Upsert(ctx, vectorindex.IndexWpPost, bot.ID, docs); err != nil {
		return nil, fmt.Errorf("index post chunks: %w", err)
	}

	post := entity.WpPost{
		ID:          uuid.New().String(),
		ChatbotID:   bot.ID,
		WebsiteID:   site.ID,
		WpID:        req.WpID,
		Title:       req.Title,
		DocumentIDs: docid.IDs(docs),
	}

	created, err := uc.wpPostRepo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create wp post record: %w", err)
	}

	ctxzap.Info(ctx, "wp post synced",
		zap.String("post_id", created.ID),
		zap.String("website_id", site.ID),
		zap.String("wp_id", req.WpID),
		zap.Int("chunk_count", len(docs)),
		zap.Bool("replaced", replaced),
	)

	return &entity.SyncWpPostResponse{
		PostID:     created.ID,
		ChunkCount: len(docs),
		Replaced:   replaced,
	}, nil
}

// removePreviousVersion deletes the chunks and record of an earlier sync of
// the same post, if any. Errors are logged and swallowed.
func (uc *WebsiteUsecase) removePreviousVersion(ctx context.Context, chatbotID, websiteID, wpID string) bool {
	previous, err := uc.wpPostRepo.GetByWebsiteAndWpID(ctx, websiteID, wpID)
	if err != nil {
		if !errors.Is(err, entity.ErrWpPostNotFound) {
			ctxzap.Warn(ctx, "failed to look up previous post version",
				zap.String("wp_id", wpID), zap.Error(err))
		}
		return false
	}

	if err := uc.vectors.DeleteByIDs(ctx, vectorindex.IndexWpPost, chatbotID, previous.DocumentIDs); err != nil {
		ctxzap.Warn(ctx, "failed to delete previous post chunks",
			zap.String("post_id", previous.ID), zap.Error(err))
	}
	if err := uc.wpPostRepo.Delete(ctx, previous.ID); err != nil {
		ctxzap.Warn(ctx, "failed to delete previous post record",
			zap.String("post_id", previous.ID), zap.Error(err))
	}

	return true
}
