package training

import (
	"path"
	"strings"
	"time"

	"github.com/botforge/chatbot-backend/internal/entity"
)

// sourceName recovers the original file name from a blob key. Keys look
// like "documents/1712345678901-report.pdf".
func sourceName(blobKey string) string {
	base := path.Base(blobKey)
	if idx := strings.Index(base, "-"); idx >= 0 && idx < len(base)-1 {
		return base[idx+1:]
	}
	return base
}

func toTrainingSummaries(trainings []*entity.Training) []*entity.TrainingSummary {
	summaries := make([]*entity.TrainingSummary, 0, len(trainings))
	for _, t := range trainings {
		summaries = append(summaries, &entity.TrainingSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			FileCount:   len(t.Files),
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries
}
