package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TrainingRepository defines the interface for training persistence
type TrainingRepository interface {
	Create(ctx context.Context, training entity.Training) (*entity.Training, error)
	Get(ctx context.Context, id string) (*entity.Training, error)
	List(ctx context.Context, req *entity.ListTrainingsRequest) ([]*entity.Training, int, error)
	ListAllByChatbot(ctx context.Context, chatbotID string) ([]*entity.Training, error)
	Delete(ctx context.Context, id string) error
}

var _ TrainingRepository = &TrainingPostgres{}

// TrainingPostgres implements TrainingRepository using PostgreSQL
type TrainingPostgres struct {
	db *pgxpool.Pool
}

func NewTrainingPostgres(db *pgxpool.Pool) *TrainingPostgres {
	return &TrainingPostgres{db: db}
}

const trainingColumns = `id, chatbot_id, type, name, description, files, created_by, created_at`

func (r *TrainingPostgres) Create(ctx context.Context, training entity.Training) (*entity.Training, error) {
	trainingID, err := uuid.Parse(training.ID)
	if err != nil {
		return nil, fmt.Errorf("parse training ID: %w", err)
	}
	chatbotID, err := uuid.Parse(training.ChatbotID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	filesJSON, err := json.Marshal(training.Files)
	if err != nil {
		return nil, fmt.Errorf("marshal training files: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO trainings (id, chatbot_id, type, name, description, files, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+trainingColumns,
		trainingID, chatbotID, training.Type, training.Name, training.Description,
		filesJSON, training.CreatedBy,
	)

	created, err := scanTraining(row)
	if err != nil {
		return nil, fmt.Errorf("create training: %w", err)
	}

	return created, nil
}

func (r *TrainingPostgres) Get(ctx context.Context, id string) (*entity.Training, error) {
	trainingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse training ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `SELECT `+trainingColumns+` FROM trainings WHERE id = $1`, trainingID)

	training, err := scanTraining(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("get training: %w", err)
	}

	return training, nil
}

func (r *TrainingPostgres) List(ctx context.Context, req *entity.ListTrainingsRequest) ([]*entity.Training, int, error) {
	chatbotID, err := uuid.Parse(req.ChatbotID)
	if err != nil {
		return nil, 0, fmt.Errorf("parse chatbot ID: %w", err)
	}

	pattern := "%" + req.Search + "%"

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT count(*) FROM trainings
		WHERE chatbot_id = $1 AND (name ILIKE $2 OR description ILIKE $2)`,
		chatbotID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count trainings: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+trainingColumns+` FROM trainings
		WHERE chatbot_id = $1 AND (name ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		chatbotID, pattern, req.Limit, req.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list trainings: %w", err)
	}
	defer rows.Close()

	var trainings []*entity.Training
	for rows.Next() {
		training, err := scanTraining(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan training: %w", err)
		}
		trainings = append(trainings, training)
	}

	return trainings, total, rows.Err()
}

func (r *TrainingPostgres) ListAllByChatbot(ctx context.Context, chatbotID string) ([]*entity.Training, error) {
	botID, err := uuid.Parse(chatbotID)
	if err != nil {
		return nil, fmt.Errorf("parse chatbot ID: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+trainingColumns+` FROM trainings
		WHERE chatbot_id = $1
		ORDER BY created_at DESC`,
		botID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trainings by chatbot: %w", err)
	}
	defer rows.Close()

	var trainings []*entity.Training
	for rows.Next() {
		training, err := scanTraining(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training: %w", err)
		}
		trainings = append(trainings, training)
	}

	return trainings, rows.Err()
}

func (r *TrainingPostgres) Delete(ctx context.Context, id string) error {
	trainingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parse training ID: %w", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM trainings WHERE id = $1`, trainingID)
	if err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrTrainingNotFound
	}

	return nil
}

func scanTraining(row pgx.Row) (*entity.Training, error) {
	var training entity.Training
	var id, chatbotID uuid.UUID
	var filesJSON []byte

	err := row.Scan(
		&id, &chatbotID, &training.Type, &training.Name, &training.Description,
		&filesJSON, &training.CreatedBy, &training.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(filesJSON, &training.Files); err != nil {
		return nil, fmt.Errorf("unmarshal training files: %w", err)
	}

	training.ID = id.String()
	training.ChatbotID = chatbotID.String()

	return &training, nil
}
