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

// WebsiteRepository defines the interface for website persistence
type WebsiteRepository interface {
	Create(ctx context.Context, website entity.Website) (*entity.Website, error)
	Get(ctx context.Context, id string) (*entity.Website, error)
	List(ctx context.Context, req *entity.ListWebsitesRequest) ([]*entity.Website, int, error)
	Update(ctx context.Context, website entity.Website) (*entity.Website, error)
	Delete(ctx context.Context, id string) error
}

var _ WebsiteRepository = &WebsitePostgres{}

// WebsitePostgres implements WebsiteRepository using PostgreSQL
type WebsitePostgres struct {
	db *pgxpool.Pool
}

func NewWebsitePostgres(db *pgxpool.Pool) *WebsitePostgres {
	return &WebsitePostgres{db: db}
}

const websiteColumns = `id, chatbot_id, name, domain_name, description, temperature,
	llm_provider, llm_model, instructions, conversation_starters, created_by, created_at, updated_at`

func (r *WebsitePostgres) Create(ctx context.Context, website entity.Website) (*entity.Website, error) {
	websiteID, err := uuid.Parse(website.ID)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}
	chatbotID, err := uuid.Parse(website.ChatbotID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO websites (id, chatbot_id, name, domain_name, description, temperature,
			llm_provider, llm_model, instructions, conversation_starters, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+websiteColumns,
		websiteID, chatbotID, website.Name, website.DomainName, website.Description,
		website.Temperature, string(website.LLM.Provider), website.LLM.ModelName,
		website.Instructions, website.ConversationStarters, website.CreatedBy,
	)

	created, err := scanWebsite(row)
	if err != nil {
		return nil, fmt.Errorf("create website: %w", err)
	}

	return created, nil
}

func (r *WebsitePostgres) Get(ctx context.Context, id string) (*entity.Website, error) {
	websiteID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `SELECT `+websiteColumns+` FROM websites WHERE id = $1`, websiteID)

	website, err := scanWebsite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("get website: %w", err)
	}

	return website, nil
}

func (r *WebsitePostgres) List(ctx context.Context, req *entity.ListWebsitesRequest) ([]*entity.Website, int, error) {
	chatbotID, err := uuid.Parse(req.ChatbotID)
	if err != nil {
		return nil, 0, fmt.Errorf("parse chatbot ID: %w", err)
	}

	pattern := "%" + req.Search + "%"

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT count(*) FROM websites
		WHERE chatbot_id = $1 AND (domain_name ILIKE $2 OR name ILIKE $2)`,
		chatbotID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count websites: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+websiteColumns+` FROM websites
		WHERE chatbot_id = $1 AND (domain_name ILIKE $2 OR name ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		chatbotID, pattern, req.Limit, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var websites []*entity.Website
	for rows.Next() {
		website, err := scanWebsite(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan website: %w", err)
		}
		websites = append(websites, website)
	}

	return websites, total, rows.Err()
}

func (r *WebsitePostgres) Update(ctx context.Context, website entity.Website) (*entity.Website, error) {
	websiteID, err := uuid.Parse(website.ID)
	if err != nil {
		return nil, fmt.Errorf("parse website ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE websites
		SET name = $2, description = $3, temperature = $4, llm_provider = $5,
			llm_model = $6, instructions = $7, conversation_starters = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+websiteColumns,
		websiteID, website.Name, website.Description, website.Temperature,
		string(website.LLM.Provider), website.LLM.ModelName, website.Instructions,
		website.ConversationStarters,
	)

	updated, err := scanWebsite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("update website: %w", err)
	}

	return updated, nil
}

func (r *WebsitePostgres) Delete(ctx context.Context, id string) error {
	websiteID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse website ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM websites WHERE id = $1`, websiteID)
	if err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrWebsiteNotFound
	}

	return nil
}

func scanWebsite(row pgx.Row) (*entity.Website, error) {
	var website entity.Website
	var id, chatbotID uuid.UUID
	var provider string

	err := row.Scan(
		&id, &chatbotID, &website.Name, &website.DomainName, &website.Description,
		&website.Temperature, &provider, &website.LLM.ModelName, &website.Instructions,
		&website.ConversationStarters, &website.CreatedBy, &website.CreatedAt, &website.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	website.ID = id.String()
	website.ChatbotID = chatbotID.String()
	website.LLM.Provider = entity.LLMProvider(provider)

	return &website, nil
}
