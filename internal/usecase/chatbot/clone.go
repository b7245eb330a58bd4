package chatbot

import (
	"context"
	"fmt"
	"path"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/docid"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CloneChatbot copies a bot's settings and re-ingests every training file
// under the new bot's identity. Chunks are minted with fresh ids and
// upserted into the clone's own namespace, so deleting either bot never
// touches the other's vectors. The clone starts unpublished. A training
// whose files can no longer be fetched or extracted is skipped.
func (uc *ChatbotUsecase) CloneChatbot(ctx context.Context, sourceID string) (*entity.CloneChatbotResponse, error) {
	source, err := uc.chatbotRepo.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	clone := entity.Chatbot{
		ID:                   uuid.New().String(),
		Name:                 source.Name + " (Copy)",
		Description:          source.Description,
		Temperature:          source.Temperature,
		LLM:                  source.LLM,
		Instructions:         source.Instructions,
		ConversationStarters: source.ConversationStarters,
		CreatedBy:            source.CreatedBy,
	}

	if source.PictureKey != "" {
		if key, err := uc.copyBlob(ctx, source.PictureKey, blob.CategoryImages); err != nil {
			ctxzap.Warn(ctx, "failed to copy chatbot picture, cloning without it",
				zap.String("source_id", source.ID), zap.Error(err))
		} else {
			clone.PictureKey = key
		}
	}

	created, err := uc.chatbotRepo.Create(ctx, clone)
	if err != nil {
		return nil, fmt.Errorf("create clone record: %w", err)
	}

	trainings, err := uc.trainingRepo.ListAllByChatbot(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("list source trainings: %w", err)
	}

	cloned := 0
	for _, training := range trainings {
		if err := uc.cloneTraining(ctx, created.ID, training); err != nil {
			ctxzap.Warn(ctx, "failed to clone training, skipping",
				zap.String("source_training_id", training.ID), zap.Error(err))
			continue
		}
		cloned++
	}

	ctxzap.Info(ctx, "chatbot cloned",
		zap.String("source_id", source.ID),
		zap.String("clone_id", created.ID),
		zap.Int("trainings_cloned", cloned),
	)

	return &entity.CloneChatbotResponse{
		ID:              created.ID,
		Name:            created.Name,
		TrainingsCloned: cloned,
	}, nil
}

// cloneTraining re-runs the ingestion pipeline for one source training:
// each blob is copied under a "copy_" name, re-extracted and re-chunked,
// and the resulting chunks get fresh ids tied to the clone.
func (uc *ChatbotUsecase) cloneTraining(ctx context.Context, cloneChatbotID string, source *entity.Training) error {
	var docs []entity.VectorDocument
	files := make([]entity.TrainingFile, 0, len(source.Files))

	for _, file := range source.Files {
		data, err := uc.blobStore.Get(ctx, file.BlobKey)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", file.BlobKey, err)
		}

		name := "copy_" + trimKeyPrefix(file.BlobKey)
		key, err := uc.blobStore.Put(ctx, blob.CategoryDocuments, name, data)
		if err != nil {
			return fmt.Errorf("copy %s: %w", file.BlobKey, err)
		}

		ext, ok := uc.extractors.ForFilename(name)
		if !ok {
			continue
		}

		extracted, err := ext.Extract(ctx, data, name)
		if err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}

		chunks, err := uc.chunker.SplitDocument(extracted.Text)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", name, err)
		}
		if len(chunks) == 0 {
			continue
		}

		minted := docid.MintFileChunks(chunks, docid.FileMeta{
			Source:    name,
			ChatbotID: cloneChatbotID,
		})
		files = append(files, entity.TrainingFile{
			BlobKey:     key,
			DocumentIDs: docid.IDs(minted),
		})
		docs = append(docs, minted...)
	}

	if len(docs) == 0 {
		return entity.ErrNoUsableFiles
	}

	training := entity.Training{
		ID:          uuid.New().String(),
		ChatbotID:   cloneChatbotID,
		Type:        source.Type,
		Name:        source.Name,
		Description: source.Description,
		Files:       files,
		CreatedBy:   source.CreatedBy,
	}

	created, err := uc.trainingRepo.Create(ctx, training)
	if err != nil {
		return fmt.Errorf("create cloned training record: %w", err)
	}

	docid.BackfillTrainingID(docs, created.ID)

	if err := uc.vectors.Upsert(ctx, vectorindex.IndexChatbot, cloneChatbotID, docs); err != nil {
		return fmt.Errorf("index cloned chunks: %w", err)
	}

	return nil
}

func (uc *ChatbotUsecase) copyBlob(ctx context.Context, key string, category blob.Category) (string, error) {
	data, err := uc.blobStore.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return uc.blobStore.Put(ctx, category, "copy_"+trimKeyPrefix(key), data)
}

// trimKeyPrefix strips the category directory and millisecond prefix from
// a blob key, leaving the original file name.
func trimKeyPrefix(key string) string {
	base := path.Base(key)
	for i := 0; i < len(base); i++ {
		if base[i] == '-' {
			return base[i+1:]
		}
		if base[i] < '0' || base[i] > '9' {
			break
		}
	}
	return base
}
