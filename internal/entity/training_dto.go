package entity

type CreateTrainingRequest struct {
	ChatbotID   string
	Name        string
	Description string
	BlobKeys    []string
	CreatorID   string
}

// TrainingFileResult reports the outcome of ingesting a single file.
type TrainingFileResult struct {
	BlobKey    string `json:"blob_key"`
	ChunkCount int    `json:"chunk_count"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

type CreateTrainingResponse struct {
	TrainingID string               `json:"training_id"`
	Files      []TrainingFileResult `json:"files"`
}

type ListTrainingsRequest struct {
	ListRequest
	ChatbotID string
}

type TrainingSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FileCount   int    `json:"file_count"`
	CreatedAt   string `json:"created_at"`
}

type ListTrainingsResponse struct {
	Trainings  []*TrainingSummary `json:"trainings"`
	Pagination Pagination         `json:"pagination"`
}

type DeleteTrainingResponse struct {
	Status string `json:"status"`
}
