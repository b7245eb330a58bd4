package training

import (
	"context"
	"fmt"
	"sync"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/cleanup"
	"github.com/botforge/chatbot-backend/internal/pkg/docid"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// TrainingUsecase implements the ingestion pipeline: uploaded files become
// embedded chunks in the chatbot's vector namespace plus a training record
// that remembers which chunks belong to which file.
type TrainingUsecase struct {
	trainingRepo repository.TrainingRepository
	chatbotRepo  repository.ChatbotRepository
	blobStore    BlobStore
	vectors      VectorIndex
	extractors   *extractor.Registry
	chunker      *chunker.Chunker
	logger       *zap.Logger
}

func NewUsecase(
	trainingRepo repository.TrainingRepository,
	chatbotRepo repository.ChatbotRepository,
	blobStore BlobStore,
	vectors VectorIndex,
	extractors *extractor.Registry,
	chunker *chunker.Chunker,
	logger *zap.Logger,
) *TrainingUsecase {
	return &TrainingUsecase{
		trainingRepo: trainingRepo,
		chatbotRepo:  chatbotRepo,
		blobStore:    blobStore,
		vectors:      vectors,
		extractors:   extractors,
		chunker:      chunker,
		logger:       logger,
	}
}

// fileOutcome is the result of processing one blob through the pipeline.
type fileOutcome struct {
	result entity.TrainingFileResult
	docs   []entity.VectorDocument
}

// CreateTraining ingests a batch of already-uploaded files. Files are
// processed concurrently; a file that cannot be extracted is reported and
// skipped rather than failing the batch. The batch fails only when no file
// produced any chunks. Chunk IDs are minted before the training record
// exists, so the record's ID is backfilled into chunk metadata before the
// single vector upsert.
func (uc *TrainingUsecase) CreateTraining(
	ctx context.Context,
	req *entity.CreateTrainingRequest,
) (*entity.CreateTrainingResponse, error) {
	if req.ChatbotID == "" {
		return nil, fmt.Errorf("%w: chatbot_id", entity.ErrMissingField)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description", entity.ErrMissingField)
	}

	chatbot, err := uc.chatbotRepo.Get(ctx, req.ChatbotID)
	if err != nil {
		return nil, err
	}

	outcomes := uc.processFiles(ctx, chatbot.ID, req.BlobKeys)

	var docs []entity.VectorDocument
	files := make([]entity.TrainingFile, 0, len(outcomes))
	results := make([]entity.TrainingFileResult, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, o.result)
		if len(o.docs) == 0 {
			continue
		}
		files = append(files, entity.TrainingFile{
			BlobKey:     o.result.BlobKey,
			DocumentIDs: docid.IDs(o.docs),
		})
		docs = append(docs, o.docs...)
	}

	if len(docs) == 0 {
		return nil, entity.ErrNoUsableFiles
	}

	training := entity.Training{
		ID:          uuid.New().String(),
		ChatbotID:   chatbot.ID,
		Type:        entity.TrainingTypeDefault,
		Name:        req.Name,
		Description: req.Description,
		Files:       files,
		CreatedBy:   req.CreatorID,
	}

	created, err := uc.trainingRepo.Create(ctx, training)
	if err != nil {
		return nil, fmt.Errorf("create training record: %w", err)
	}

	docid.BackfillTrainingID(docs, created.ID)

	if err := uc.vectors.Upsert(ctx, vectorindex.IndexChatbot, chatbot.ID, docs); err != nil {
		// Roll the record back so a failed upsert never leaves a training
		// that claims chunks which were never written.
		if delErr := uc.trainingRepo.Delete(ctx, created.ID); delErr != nil {
			ctxzap.Error(ctx, "failed to roll back training record after upsert failure",
				zap.String("training_id", created.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("index training chunks: %w", err)
	}

	ctxzap.Info(ctx, "training created",
		zap.String("training_id", created.ID),
		zap.String("chatbot_id", chatbot.ID),
		zap.Int("file_count", len(files)),
		zap.Int("chunk_count", len(docs)),
	)

	return &entity.CreateTrainingResponse{
		TrainingID: created.ID,
		Files:      results,
	}, nil
}

func (uc *TrainingUsecase) GetTraining(ctx context.Context, id string) (*entity.Training, error) {
	return uc.trainingRepo.Get(ctx, id)
}

func (uc *TrainingUsecase) ListTrainings(
	ctx context.Context,
	req *entity.ListTrainingsRequest,
) (*entity.ListTrainingsResponse, error) {
	if _, err := uc.chatbotRepo.Get(ctx, req.ChatbotID); err != nil {
		return nil, err
	}

	req.Normalize()

	trainings, total, err := uc.trainingRepo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}

	return &entity.ListTrainingsResponse{
		Trainings:  toTrainingSummaries(trainings),
		Pagination: entity.NewPagination(&req.ListRequest, total),
	}, nil
}

// DeleteTraining cascades across the vector index and blob store before
// removing the training record. Vector and blob failures leave orphans and
// are logged; only a failure to delete the record itself is fatal, so the
// user is never stuck with an undeletable training.
func (uc *TrainingUsecase) DeleteTraining(ctx context.Context, id string) (*entity.DeleteTrainingResponse, error) {
	training, err := uc.trainingRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exec := cleanup.NewExecutor()
	fields := []zap.Field{
		zap.String("training_id", training.ID),
		zap.String("chatbot_id", training.ChatbotID),
	}

	for _, file := range training.Files {
		file := file
		exec.Run(ctx, "delete vector chunks", append(fields, zap.String("blob_key", file.BlobKey)), func() error {
			return uc.vectors.DeleteByIDs(ctx, vectorindex.IndexChatbot, training.ChatbotID, file.DocumentIDs)
		})
		exec.Run(ctx, "delete blob", append(fields, zap.String("blob_key", file.BlobKey)), func() error {
			return uc.blobStore.Delete(ctx, file.BlobKey)
		})
	}

	if err := uc.trainingRepo.Delete(ctx, training.ID); err != nil {
		return nil, fmt.Errorf("delete training record: %w", err)
	}

	exec.Report(ctx, "training", fields...)

	return &entity.DeleteTrainingResponse{Status: "deleted"}, nil
}

// processFiles runs the fetch, extract, chunk, mint pipeline for every blob
// concurrently. Outcomes keep the input order.
func (uc *TrainingUsecase) processFiles(ctx context.Context, chatbotID string, blobKeys []string) []fileOutcome {
	outcomes := make([]fileOutcome, len(blobKeys))

	var wg sync.WaitGroup
	for i, key := range blobKeys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			outcomes[i] = uc.processFile(ctx, chatbotID, key)
		}(i, key)
	}
	wg.Wait()

	return outcomes
}

func (uc *TrainingUsecase) processFile(ctx context.Context, chatbotID, blobKey string) fileOutcome {
	outcome := fileOutcome{result: entity.TrainingFileResult{BlobKey: blobKey}}
	source := sourceName(blobKey)

	ext, ok := uc.extractors.ForFilename(source)
	if !ok {
		outcome.result.Skipped = true
		ctxzap.Info(ctx, "skipping unsupported file type", zap.String("blob_key", blobKey))
		return outcome
	}

	data, err := uc.blobStore.Get(ctx, blobKey)
	if err != nil {
		outcome.result.Error = fmt.Sprintf("fetch file: %v", err)
		ctxzap.Warn(ctx, "failed to fetch training file", zap.String("blob_key", blobKey), zap.Error(err))
		return outcome
	}

	extracted, err := ext.Extract(ctx, data, source)
	if err != nil {
		outcome.result.Error = fmt.Sprintf("extract text: %v", err)
		ctxzap.Warn(ctx, "failed to extract training file", zap.String("blob_key", blobKey), zap.Error(err))
		return outcome
	}

	chunks, err := uc.chunker.SplitDocument(extracted.Text)
	if err != nil {
		outcome.result.Error = fmt.Sprintf("split text: %v", err)
		ctxzap.Warn(ctx, "failed to chunk training file", zap.String("blob_key", blobKey), zap.Error(err))
		return outcome
	}
	if len(chunks) == 0 {
		outcome.result.Error = "file contains no extractable text"
		return outcome
	}

	outcome.docs = docid.MintFileChunks(chunks, docid.FileMeta{
		Source:    source,
		ChatbotID: chatbotID,
	})
	outcome.result.ChunkCount = len(outcome.docs)

	return outcome
}
