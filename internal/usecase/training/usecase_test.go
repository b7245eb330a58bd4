package training_test

import (
	"context"
	"errors"
	"testing"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/botforge/chatbot-backend/internal/usecase/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChatbotRepo struct {
	repository.ChatbotRepository
	bot *entity.Chatbot
}

func (f *fakeChatbotRepo) Get(_ context.Context, id string) (*entity.Chatbot, error) {
	if f.bot == nil || f.bot.ID != id {
		return nil, entity.ErrChatbotNotFound
	}
	return f.bot, nil
}

type fakeTrainingRepo struct {
	repository.TrainingRepository
	trainings map[string]*entity.Training
	deleted   []string
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{trainings: map[string]*entity.Training{}}
}

func (f *fakeTrainingRepo) Create(_ context.Context, t entity.Training) (*entity.Training, error) {
	created := t
	f.trainings[t.ID] = &created
	return &created, nil
}

func (f *fakeTrainingRepo) Get(_ context.Context, id string) (*entity.Training, error) {
	t, ok := f.trainings[id]
	if !ok {
		return nil, entity.ErrTrainingNotFound
	}
	return t, nil
}

func (f *fakeTrainingRepo) Delete(_ context.Context, id string) error {
	delete(f.trainings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	deleted []string
}

func (f *fakeBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, entity.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type upsertCall struct {
	index     vectorindex.Index
	namespace string
	docs      []entity.VectorDocument
}

type deleteCall struct {
	index     vectorindex.Index
	namespace string
	ids       []string
}

type fakeVectorIndex struct {
	upserts   []upsertCall
	deletes   []deleteCall
	upsertErr error
}

func (f *fakeVectorIndex) Upsert(_ context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{index: index, namespace: namespace, docs: docs})
	return nil
}

func (f *fakeVectorIndex) DeleteByIDs(_ context.Context, index vectorindex.Index, namespace string, ids []string) error {
	f.deletes = append(f.deletes, deleteCall{index: index, namespace: namespace, ids: ids})
	return nil
}

const faqCSV = "question,answer\nWhat is the warranty?,Two years on all widgets.\nHow long is shipping?,Five business days.\n"

func newTestUsecase(bot *entity.Chatbot, blobs map[string][]byte) (*training.TrainingUsecase, *fakeTrainingRepo, *fakeBlobStore, *fakeVectorIndex) {
	trainingRepo := newFakeTrainingRepo()
	blobStore := &fakeBlobStore{blobs: blobs}
	vectors := &fakeVectorIndex{}

	uc := training.NewUsecase(
		trainingRepo,
		&fakeChatbotRepo{bot: bot},
		blobStore,
		vectors,
		extractor.NewRegistry(),
		chunker.New(),
		zap.NewNop(),
	)
	return uc, trainingRepo, blobStore, vectors
}

func TestCreateTrainingPartialBatch(t *testing.T) {
	bot := &entity.Chatbot{ID: "bot-1"}
	uc, repo, _, vectors := newTestUsecase(bot, map[string][]byte{
		"100-faq.csv":   []byte(faqCSV),
		"101-bad.csv":   []byte("question,answer\n\"unterminated"),
		"102-notes.txt": []byte("plain text is not a supported format"),
	})

	resp, err := uc.CreateTraining(context.Background(), &entity.CreateTrainingRequest{
		ChatbotID:   "bot-1",
		Name:        "FAQ batch",
		Description: "mixed upload",
		BlobKeys:    []string{"100-faq.csv", "101-bad.csv", "102-notes.txt"},
		CreatorID:   "user-1",
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 3)

	byKey := map[string]entity.TrainingFileResult{}
	for _, f := range resp.Files {
		byKey[f.BlobKey] = f
	}
	assert.Greater(t, byKey["100-faq.csv"].ChunkCount, 0)
	assert.NotEmpty(t, byKey["101-bad.csv"].Error)
	assert.True(t, byKey["102-notes.txt"].Skipped)

	// Only the good file made it into the record and the vector index.
	created, err := repo.Get(context.Background(), resp.TrainingID)
	require.NoError(t, err)
	require.Len(t, created.Files, 1)
	assert.Equal(t, "100-faq.csv", created.Files[0].BlobKey)

	require.Len(t, vectors.upserts, 1)
	call := vectors.upserts[0]
	assert.Equal(t, vectorindex.IndexChatbot, call.index)
	assert.Equal(t, "bot-1", call.namespace)
	assert.Equal(t, created.Files[0].DocumentIDs, docIDs(call.docs))
}

func TestCreateTrainingBackfillsTrainingID(t *testing.T) {
	bot := &entity.Chatbot{ID: "bot-1"}
	uc, _, _, vectors := newTestUsecase(bot, map[string][]byte{
		"100-faq.csv": []byte(faqCSV),
	})

	resp, err := uc.CreateTraining(context.Background(), &entity.CreateTrainingRequest{
		ChatbotID:   "bot-1",
		Name:        "FAQ",
		Description: "faq upload",
		BlobKeys:    []string{"100-faq.csv"},
	})
	require.NoError(t, err)

	require.Len(t, vectors.upserts, 1)
	for _, doc := range vectors.upserts[0].docs {
		assert.Equal(t, resp.TrainingID, doc.Metadata[entity.MetaTraining])
		assert.Equal(t, "bot-1", doc.Metadata[entity.MetaChatbotID])
		assert.Equal(t, "faq.csv", doc.Metadata[entity.MetaSource])
	}
}

func TestCreateTrainingNoUsableFiles(t *testing.T) {
	bot := &entity.Chatbot{ID: "bot-1"}
	uc, repo, _, vectors := newTestUsecase(bot, map[string][]byte{
		"101-bad.csv": []byte("question,answer\n\"unterminated"),
	})

	_, err := uc.CreateTraining(context.Background(), &entity.CreateTrainingRequest{
		ChatbotID:   "bot-1",
		Name:        "broken",
		Description: "nothing usable",
		BlobKeys:    []string{"101-bad.csv", "102-notes.txt"},
	})
	require.ErrorIs(t, err, entity.ErrNoUsableFiles)

	assert.Empty(t, repo.trainings)
	assert.Empty(t, vectors.upserts)
}

func TestCreateTrainingRequiresFields(t *testing.T) {
	uc, _, _, _ := newTestUsecase(&entity.Chatbot{ID: "bot-1"}, nil)

	tests := []struct {
		name string
		req  entity.CreateTrainingRequest
	}{
		{"blank chatbot id", entity.CreateTrainingRequest{Name: "FAQ", Description: "faq upload"}},
		{"blank name", entity.CreateTrainingRequest{ChatbotID: "bot-1", Description: "faq upload"}},
		{"blank description", entity.CreateTrainingRequest{ChatbotID: "bot-1", Name: "FAQ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.BlobKeys = []string{"100-faq.csv"}
			_, err := uc.CreateTraining(context.Background(), &tt.req)
			assert.ErrorIs(t, err, entity.ErrMissingField)
		})
	}
}

func TestCreateTrainingUnknownChatbot(t *testing.T) {
	uc, _, _, _ := newTestUsecase(&entity.Chatbot{ID: "bot-1"}, nil)

	_, err := uc.CreateTraining(context.Background(), &entity.CreateTrainingRequest{
		ChatbotID:   "no-such-bot",
		Name:        "x",
		Description: "y",
		BlobKeys:    []string{"100-faq.csv"},
	})
	assert.ErrorIs(t, err, entity.ErrChatbotNotFound)
}

func TestCreateTrainingUpsertFailureRollsBackRecord(t *testing.T) {
	bot := &entity.Chatbot{ID: "bot-1"}
	uc, repo, _, vectors := newTestUsecase(bot, map[string][]byte{
		"100-faq.csv": []byte(faqCSV),
	})
	vectors.upsertErr = errors.New("embedding service down")

	_, err := uc.CreateTraining(context.Background(), &entity.CreateTrainingRequest{
		ChatbotID:   "bot-1",
		Name:        "FAQ",
		Description: "faq upload",
		BlobKeys:    []string{"100-faq.csv"},
	})
	require.Error(t, err)

	// The record created before the upsert must not survive it failing.
	assert.Empty(t, repo.trainings)
	assert.Len(t, repo.deleted, 1)
}

func TestDeleteTrainingCascades(t *testing.T) {
	bot := &entity.Chatbot{ID: "bot-1"}
	uc, repo, blobStore, vectors := newTestUsecase(bot, nil)

	repo.trainings["tr-1"] = &entity.Training{
		ID:        "tr-1",
		ChatbotID: "bot-1",
		Files: []entity.TrainingFile{
			{BlobKey: "100-faq.csv", DocumentIDs: []string{"d1", "d2"}},
			{BlobKey: "200-manual.pdf", DocumentIDs: []string{"d3"}},
		},
	}

	resp, err := uc.DeleteTraining(context.Background(), "tr-1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", resp.Status)

	assert.Empty(t, repo.trainings)

	require.Len(t, vectors.deletes, 2)
	assert.Equal(t, []string{"d1", "d2"}, vectors.deletes[0].ids)
	assert.Equal(t, "bot-1", vectors.deletes[0].namespace)
	assert.Equal(t, []string{"d3"}, vectors.deletes[1].ids)

	assert.ElementsMatch(t, []string{"100-faq.csv", "200-manual.pdf"}, blobStore.deleted)
}

func TestDeleteTrainingUnknownID(t *testing.T) {
	uc, _, _, _ := newTestUsecase(&entity.Chatbot{ID: "bot-1"}, nil)

	_, err := uc.DeleteTraining(context.Background(), "no-such-training")
	assert.ErrorIs(t, err, entity.ErrTrainingNotFound)
}

func docIDs(docs []entity.VectorDocument) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
