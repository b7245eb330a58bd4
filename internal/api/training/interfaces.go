package training

import (
	"context"

	"github.com/botforge/chatbot-backend/internal/entity"
)

type TrainingUsecase interface {
	CreateTraining(ctx context.Context, req *entity.CreateTrainingRequest) (*entity.CreateTrainingResponse, error)
	GetTraining(ctx context.Context, id string) (*entity.Training, error)
	ListTrainings(ctx context.Context, req *entity.ListTrainingsRequest) (*entity.ListTrainingsResponse, error)
	DeleteTraining(ctx context.Context, id string) (*entity.DeleteTrainingResponse, error)
}
