package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatbotRepository defines the interface for chatbot persistence
type ChatbotRepository interface {
	Create(ctx context.Context, bot entity.Chatbot) (*entity.Chatbot, error)
	Get(ctx context.Context, id string) (*entity.Chatbot, error)
	List(ctx context.Context, req *entity.ListChatbotsRequest) ([]*entity.Chatbot, int, error)
	Update(ctx context.Context, bot entity.Chatbot) (*entity.Chatbot, error)
	SetPublished(ctx context.Context, id string, published bool, at *time.Time) error
	AddConnectedWebsite(ctx context.Context, id, websiteID string) error
	RemoveConnectedWebsite(ctx context.Context, id, websiteID string) error
	Delete(ctx context.Context, id string) error
}

var _ ChatbotRepository = &ChatbotPostgres{}

// ChatbotPostgres implements ChatbotRepository using PostgreSQL
type ChatbotPostgres struct {
	db *pgxpool.Pool
}

func NewChatbotPostgres(db *pgxpool.Pool) *ChatbotPostgres {
	return &ChatbotPostgres{db: db}
}

const chatbotColumns = `id, name, description, picture_key, temperature, llm_provider, llm_model,
	instructions, conversation_starters, connected_websites, published, published_at,
	created_by, created_at, updated_at`

func (r *ChatbotPostgres) Create(ctx context.Context, bot entity.Chatbot) (*entity.Chatbot, error) {
	botID, err := uuid.Parse(bot.ID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO chatbots (id, name, description, picture_key, temperature, llm_provider,
			llm_model, instructions, conversation_starters, connected_websites, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+chatbotColumns,
		botID, bot.Name, bot.Description, bot.PictureKey, bot.Temperature,
		string(bot.LLM.Provider), bot.LLM.ModelName, bot.Instructions,
		bot.ConversationStarters, bot.ConnectedWebsites, bot.CreatedBy,
	)

	created, err := scanChatbot(row)
	if err != nil {
		return nil, fmt.Errorf("create chatbot: %w", err)
	}

	return created, nil
}

func (r *ChatbotPostgres) Get(ctx context.Context, id string) (*entity.Chatbot, error) {
	botID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `SELECT `+chatbotColumns+` FROM chatbots WHERE id = $1`, botID)

	bot, err := scanChatbot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrChatbotNotFound
		}
		return nil, fmt.Errorf("get chatbot: %w", err)
	}

	return bot, nil
}

func (r *ChatbotPostgres) List(ctx context.Context, req *entity.ListChatbotsRequest) ([]*entity.Chatbot, int, error) {
	pattern := "%" + req.Search + "%"

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM chatbots
		WHERE created_by = $1 AND (name ILIKE $2 OR description ILIKE $2)`,
		req.CreatorID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count chatbots: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+chatbotColumns+` FROM chatbots
		WHERE created_by = $1 AND (name ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		req.CreatorID, pattern, req.Limit, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list chatbots: %w", err)
	}
	defer rows.Close()

	var bots []*entity.Chatbot
	for rows.Next() {
		bot, err := scanChatbot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan chatbot: %w", err)
		}
		bots = append(bots, bot)
	}

	return bots, total, rows.Err()
}

func (r *ChatbotPostgres) Update(ctx context.Context, bot entity.Chatbot) (*entity.Chatbot, error) {
	botID, err := uuid.Parse(bot.ID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE chatbots
		SET name = $2, description = $3, picture_key = $4, temperature = $5,
			llm_provider = $6, llm_model = $7, instructions = $8,
			conversation_starters = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+chatbotColumns,
		botID, bot.Name, bot.Description, bot.PictureKey, bot.Temperature,
		string(bot.LLM.Provider), bot.LLM.ModelName, bot.Instructions,
		bot.ConversationStarters,
	)

	updated, err := scanChatbot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrChatbotNotFound
		}
		return nil, fmt.Errorf("update chatbot: %w", err)
	}

	return updated, nil
}

func (r *ChatbotPostgres) SetPublished(ctx context.Context, id string, published bool, at *time.Time) error {
	botID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse chatbot ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE chatbots SET published = $2, published_at = $3, updated_at = now()
		WHERE id = $1`,
		botID, published, at,
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrChatbotNotFound
	}

	return nil
}

func (r *ChatbotPostgres) AddConnectedWebsite(ctx context.Context, id, websiteID string) error {
	botID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse chatbot ID: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE chatbots
		SET connected_websites = array_append(connected_websites, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(connected_websites))`,
		botID, websiteID,
	)
	if err != nil {
		return fmt.Errorf("add connected website: %w", err)
	}

	return nil
}

func (r *ChatbotPostgres) RemoveConnectedWebsite(ctx context.Context, id, websiteID string) error {
	botID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse chatbot ID: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE chatbots
		SET connected_websites = array_remove(connected_websites, $2), updated_at = now()
		WHERE id = $1`,
		botID, websiteID,
	)
	if err != nil {
		return fmt.Errorf("remove connected website: %w", err)
	}

	return nil
}

func (r *ChatbotPostgres) Delete(ctx context.Context, id string) error {
	botID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse chatbot ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM chatbots WHERE id = $1`, botID)
	if err != nil {
		return fmt.Errorf("delete chatbot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrChatbotNotFound
	}

	return nil
}

func scanChatbot(row pgx.Row) (*entity.Chatbot, error) {
	var bot entity.Chatbot
	var id uuid.UUID
	var provider string

	err := row.Scan(
		&id, &bot.Name, &bot.Description, &bot.PictureKey, &bot.Temperature,
		&provider, &bot.LLM.ModelName, &bot.Instructions,
		&bot.ConversationStarters, &bot.ConnectedWebsites, &bot.Published,
		&bot.PublishedAt, &bot.CreatedBy, &bot.CreatedAt, &bot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bot.ID = id.String()
	bot.LLM.Provider = entity.LLMProvider(provider)

	return &bot, nil
}
