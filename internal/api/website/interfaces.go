package website

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
)

type WebsiteUsecase interface {
	CreateWebsite(ctx context.Context, req *entity.CreateWebsiteRequest) (*entity.Website, error)
	GetWebsite(ctx context.Context, id string) (*entity.Website, error)
	ListWebsites(ctx context.Context, req *entity.ListWebsitesRequest) (*entity.ListWebsitesResponse, error)
	UpdateWebsite(ctx context.Context, req *entity.UpdateWebsiteRequest) (*entity.Website, error)
	DeleteWebsite(ctx context.Context, id string) (*entity.DeleteWebsiteResponse, error)
	SyncWpPost(ctx context.Context, req *entity.SyncWpPostRequest) (*entity.SyncWpPostResponse, error)
}
