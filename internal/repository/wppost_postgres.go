package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WpPostRepository defines the interface for synced post persistence
type WpPostRepository interface {
	Create(ctx context.Context, post entity.WpPost) (*entity.WpPost, error)
	GetByWebsiteAndWpID(ctx context.Context, websiteID, wpID string) (*entity.WpPost, error)
	ListByWebsite(ctx context.Context, websiteID string) ([]*entity.WpPost, error)
	Delete(ctx context.Context, id string) error
}

var _ WpPostRepository = &WpPostPostgres{}

// WpPostPostgres implements WpPostRepository using PostgreSQL
type WpPostPostgres struct {
	db *pgxpool.Pool
}

func NewWpPostPostgres(db *pgxpool.Pool) *WpPostPostgres {
	return &WpPostPostgres{db: db}
}

const wpPostColumns = `id, chatbot_id, website_id, wp_id, title, document_ids, created_at`

func (r *WpPostPostgres) Create(ctx context.Context, post entity.WpPost) (*entity.WpPost, error) {
	postID, err := uuid.Parse(post.ID)
	if err != nil {
		return nil, fmt.Errorf("parse post ID: %w", err)
	}
	chatbotID, err := uuid.Parse(post.ChatbotID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}
	websiteID, err := uuid.Parse(post.WebsiteID)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO wp_posts (id, chatbot_id, website_id, wp_id, title, document_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+wpPostColumns,
		postID, chatbotID, websiteID, post.WpID, post.Title, post.DocumentIDs,
	)

	created, err := scanWpPost(row)
	if err != nil {
		return nil, fmt.Errorf("create wp post: %w", err)
	}

	return created, nil
}

func (r *WpPostPostgres) GetByWebsiteAndWpID(ctx context.Context, websiteID, wpID string) (*entity.WpPost, error) {
	siteID, err := uuid.Parse(websiteID)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+wpPostColumns+` FROM wp_posts
		WHERE website_id = $1 AND wp_id = $2`,
		siteID, wpID,
	)

	post, err := scanWpPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWpPostNotFound
		}
		return nil, fmt.Errorf("get wp post: %w", err)
	}

	return post, nil
}

func (r *WpPostPostgres) ListByWebsite(ctx context.Context, websiteID string) ([]*entity.WpPost, error) {
	siteID, err := uuid.Parse(websiteID)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+wpPostColumns+` FROM wp_posts
		WHERE website_id = $1
		ORDER BY created_at DESC`,
		siteID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wp posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.WpPost
	for rows.Next() {
		post, err := scanWpPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wp post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *WpPostPostgres) Delete(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse post ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM wp_posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete wp post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrWpPostNotFound
	}

	return nil
}

func scanWpPost(row pgx.Row) (*entity.WpPost, error) {
	var post entity.WpPost
	var id, chatbotID, websiteID uuid.UUID

	err := row.Scan(
		&id, &chatbotID, &websiteID, &post.WpID, &post.Title,
		&post.DocumentIDs, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ID = id.String()
	post.ChatbotID = chatbotID.String()
	post.WebsiteID = websiteID.String()

	return &post, nil
}
