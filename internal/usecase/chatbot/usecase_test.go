package chatbot_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/botforge/chatbot-backend/internal/config"
	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/blob"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/pkg/extractor"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/botforge/chatbot-backend/internal/usecase/chatbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChatbotRepo struct {
	repository.ChatbotRepository
	bots    map[string]*entity.Chatbot
	deleted []string
}

func newFakeChatbotRepo(bots ...*entity.Chatbot) *fakeChatbotRepo {
	repo := &fakeChatbotRepo{bots: map[string]*entity.Chatbot{}}
	for _, b := range bots {
		repo.bots[b.ID] = b
	}
	return repo
}

func (f *fakeChatbotRepo) Create(_ context.Context, bot entity.Chatbot) (*entity.Chatbot, error) {
	created := bot
	f.bots[bot.ID] = &created
	return &created, nil
}

func (f *fakeChatbotRepo) Get(_ context.Context, id string) (*entity.Chatbot, error) {
	bot, ok := f.bots[id]
	if !ok {
		return nil, entity.ErrChatbotNotFound
	}
	copied := *bot
	return &copied, nil
}

func (f *fakeChatbotRepo) Update(_ context.Context, bot entity.Chatbot) (*entity.Chatbot, error) {
	if _, ok := f.bots[bot.ID]; !ok {
		return nil, entity.ErrChatbotNotFound
	}
	updated := bot
	f.bots[bot.ID] = &updated
	return &updated, nil
}

func (f *fakeChatbotRepo) SetPublished(_ context.Context, id string, published bool, at *time.Time) error {
	bot, ok := f.bots[id]
	if !ok {
		return entity.ErrChatbotNotFound
	}
	bot.Published = published
	bot.PublishedAt = at
	return nil
}

func (f *fakeChatbotRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.bots[id]; !ok {
		return entity.ErrChatbotNotFound
	}
	delete(f.bots, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTrainingRepo struct {
	repository.TrainingRepository
	trainings map[string]*entity.Training
}

func newFakeTrainingRepo(trainings ...*entity.Training) *fakeTrainingRepo {
	repo := &fakeTrainingRepo{trainings: map[string]*entity.Training{}}
	for _, t := range trainings {
		repo.trainings[t.ID] = t
	}
	return repo
}

func (f *fakeTrainingRepo) Create(_ context.Context, t entity.Training) (*entity.Training, error) {
	created := t
	f.trainings[t.ID] = &created
	return &created, nil
}

func (f *fakeTrainingRepo) ListAllByChatbot(_ context.Context, chatbotID string) ([]*entity.Training, error) {
	var out []*entity.Training
	for _, t := range f.trainings {
		if t.ChatbotID == chatbotID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeWebsiteRepo struct {
	repository.WebsiteRepository
	sites map[string]*entity.Website
}

func (f *fakeWebsiteRepo) Get(_ context.Context, id string) (*entity.Website, error) {
	site, ok := f.sites[id]
	if !ok {
		return nil, entity.ErrWebsiteNotFound
	}
	return site, nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	puts    int
	deleted []string
}

func newFakeBlobStore(blobs map[string][]byte) *fakeBlobStore {
	if blobs == nil {
		blobs = map[string][]byte{}
	}
	return &fakeBlobStore{blobs: blobs}
}

func (f *fakeBlobStore) Put(_ context.Context, category blob.Category, name string, data []byte) (string, error) {
	f.puts++
	key := fmt.Sprintf("%s/%d-%s", category, f.puts, name)
	f.blobs[key] = data
	return key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, entity.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(f.blobs, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type upsertCall struct {
	index     vectorindex.Index
	namespace string
	docs      []entity.VectorDocument
}

type fakeVectorIndex struct {
	upserts           []upsertCall
	deletedIDs        []string
	droppedNamespaces []string
}

func (f *fakeVectorIndex) Upsert(_ context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error {
	f.upserts = append(f.upserts, upsertCall{index: index, namespace: namespace, docs: docs})
	return nil
}

func (f *fakeVectorIndex) DeleteByIDs(_ context.Context, _ vectorindex.Index, _ string, ids []string) error {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return nil
}

func (f *fakeVectorIndex) DeleteNamespace(_ context.Context, index vectorindex.Index, namespace string) error {
	f.droppedNamespaces = append(f.droppedNamespaces, fmt.Sprintf("%s/%s", index, namespace))
	return nil
}

type fixture struct {
	uc          *chatbot.ChatbotUsecase
	chatbotRepo *fakeChatbotRepo
	trainingRep *fakeTrainingRepo
	websiteRepo *fakeWebsiteRepo
	blobStore   *fakeBlobStore
	vectors     *fakeVectorIndex
}

func newFixture(chatbotRepo *fakeChatbotRepo, trainingRepo *fakeTrainingRepo, websiteRepo *fakeWebsiteRepo, blobStore *fakeBlobStore) *fixture {
	if websiteRepo == nil {
		websiteRepo = &fakeWebsiteRepo{sites: map[string]*entity.Website{}}
	}
	if blobStore == nil {
		blobStore = newFakeBlobStore(nil)
	}
	vectors := &fakeVectorIndex{}

	uc := chatbot.NewUsecase(
		chatbotRepo,
		trainingRepo,
		websiteRepo,
		blobStore,
		vectors,
		extractor.NewRegistry(),
		chunker.New(),
		nil,
		config.ChatConfig{ConfigCacheTTL: time.Minute, ConfigCacheCleanup: time.Minute},
		zap.NewNop(),
	)

	return &fixture{
		uc:          uc,
		chatbotRepo: chatbotRepo,
		trainingRep: trainingRepo,
		websiteRepo: websiteRepo,
		blobStore:   blobStore,
		vectors:     vectors,
	}
}

func TestCreateChatbotAppliesDefaults(t *testing.T) {
	fx := newFixture(newFakeChatbotRepo(), newFakeTrainingRepo(), nil, nil)

	bot, err := fx.uc.CreateChatbot(context.Background(), &entity.CreateChatbotRequest{
		Name:      "Support Bot",
		CreatorID: "user-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, bot.ID)
	assert.Equal(t, entity.DefaultLLMSettings(), bot.LLM)
	assert.False(t, bot.Published)
}

func TestCreateChatbotRequiresName(t *testing.T) {
	fx := newFixture(newFakeChatbotRepo(), newFakeTrainingRepo(), nil, nil)

	_, err := fx.uc.CreateChatbot(context.Background(), &entity.CreateChatbotRequest{})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestCreateChatbotRejectsUnknownProvider(t *testing.T) {
	fx := newFixture(newFakeChatbotRepo(), newFakeTrainingRepo(), nil, nil)

	_, err := fx.uc.CreateChatbot(context.Background(), &entity.CreateChatbotRequest{
		Name: "Support Bot",
		LLM:  &entity.LLMSettings{Provider: "Anthropic"},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestTogglePublish(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1", Name: "Support Bot"})
	fx := newFixture(repo, newFakeTrainingRepo(), nil, nil)
	ctx := context.Background()

	resp, err := fx.uc.TogglePublish(ctx, "bot-1")
	require.NoError(t, err)
	assert.True(t, resp.Published)
	assert.NotEmpty(t, resp.PublishedAt)

	resp, err = fx.uc.TogglePublish(ctx, "bot-1")
	require.NoError(t, err)
	assert.False(t, resp.Published)
	assert.Empty(t, resp.PublishedAt)
	assert.Nil(t, repo.bots["bot-1"].PublishedAt)
}

func TestDeleteChatbotCascades(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{
		ID:         "bot-1",
		Name:       "Support Bot",
		PictureKey: "images/1-logo.png",
	})
	trainingRepo := newFakeTrainingRepo(&entity.Training{
		ID:        "tr-1",
		ChatbotID: "bot-1",
		Files: []entity.TrainingFile{
			{BlobKey: "documents/1-faq.csv", DocumentIDs: []string{"d1", "d2"}},
		},
	})
	fx := newFixture(repo, trainingRepo, nil, nil)

	resp, err := fx.uc.DeleteChatbot(context.Background(), "bot-1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", resp.Status)

	assert.Equal(t, []string{"bot-1"}, repo.deleted)
	assert.ElementsMatch(t, []string{"d1", "d2"}, fx.vectors.deletedIDs)
	assert.ElementsMatch(t,
		[]string{"chatbot/bot-1", "wp_post/bot-1"},
		fx.vectors.droppedNamespaces,
	)
	assert.Contains(t, fx.blobStore.deleted, "documents/1-faq.csv")
	assert.Contains(t, fx.blobStore.deleted, "images/1-logo.png")
}

func TestResolveChatConfigWebsiteOverrides(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{
		ID:                "bot-1",
		Name:              "Support Bot",
		Instructions:      "Answer politely.",
		ConnectedWebsites: []string{"site-1"},
		LLM:               entity.DefaultLLMSettings(),
	})
	websiteRepo := &fakeWebsiteRepo{sites: map[string]*entity.Website{
		"site-1": {
			ID:           "site-1",
			ChatbotID:    "bot-1",
			Name:         "Store Help",
			Instructions: "Answer in the store's voice.",
			LLM:          entity.DefaultLLMSettings(),
		},
	}}
	fx := newFixture(repo, newFakeTrainingRepo(), websiteRepo, nil)
	ctx := context.Background()

	cfg, err := fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Support Bot", cfg.Name)
	assert.False(t, cfg.ConnectWebsite)

	cfg, err = fx.uc.ResolveChatConfig(ctx, "bot-1", "site-1")
	require.NoError(t, err)
	assert.Equal(t, "Store Help", cfg.Name)
	assert.Equal(t, "Answer in the store's voice.", cfg.Instructions)
	assert.True(t, cfg.ConnectWebsite)
	assert.Equal(t, "site-1", cfg.WebsiteID)
}

func TestResolveChatConfigRejectsUnconnectedWebsite(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{
		ID:                "bot-1",
		Name:              "Support Bot",
		ConnectedWebsites: []string{"site-1"},
	})
	fx := newFixture(repo, newFakeTrainingRepo(), nil, nil)

	_, err := fx.uc.ResolveChatConfig(context.Background(), "bot-1", "site-2")
	assert.ErrorIs(t, err, entity.ErrWebsiteNotConnected)
}

func TestResolveChatConfigCachesUntilInvalidated(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1", Name: "Before"})
	fx := newFixture(repo, newFakeTrainingRepo(), nil, nil)
	ctx := context.Background()

	cfg, err := fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Before", cfg.Name)

	repo.bots["bot-1"].Name = "After"

	cfg, err = fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Before", cfg.Name, "stale name expected while cached")

	fx.uc.InvalidateChatConfig("bot-1")

	cfg, err = fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "After", cfg.Name)
}

func TestUpdateChatbotInvalidatesChatConfig(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{
		ID:   "bot-1",
		Name: "Before",
		LLM:  entity.DefaultLLMSettings(),
	})
	fx := newFixture(repo, newFakeTrainingRepo(), nil, nil)
	ctx := context.Background()

	_, err := fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)

	name := "After"
	_, err = fx.uc.UpdateChatbot(ctx, &entity.UpdateChatbotRequest{ID: "bot-1", Name: &name})
	require.NoError(t, err)

	cfg, err := fx.uc.ResolveChatConfig(ctx, "bot-1", "")
	require.NoError(t, err)
	assert.Equal(t, "After", cfg.Name)
}

const faqCSV = "question,answer\nWhat is the warranty?,Two years on all widgets.\n"

func TestCloneChatbotReingestsIntoOwnNamespace(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{
		ID:        "bot-1",
		Name:      "Support Bot",
		Published: true,
		LLM:       entity.DefaultLLMSettings(),
		CreatedBy: "user-1",
	})
	trainingRepo := newFakeTrainingRepo(&entity.Training{
		ID:        "tr-1",
		ChatbotID: "bot-1",
		Name:      "FAQ",
		Files: []entity.TrainingFile{
			{BlobKey: "documents/100-faq.csv", DocumentIDs: []string{"src-d1"}},
		},
	})
	blobStore := newFakeBlobStore(map[string][]byte{
		"documents/100-faq.csv": []byte(faqCSV),
	})
	fx := newFixture(repo, trainingRepo, nil, blobStore)

	resp, err := fx.uc.CloneChatbot(context.Background(), "bot-1")
	require.NoError(t, err)

	assert.Equal(t, "Support Bot (Copy)", resp.Name)
	assert.Equal(t, 1, resp.TrainingsCloned)
	assert.NotEqual(t, "bot-1", resp.ID)

	clone := repo.bots[resp.ID]
	require.NotNil(t, clone)
	assert.False(t, clone.Published)
	assert.Equal(t, "user-1", clone.CreatedBy)

	// The clone's chunks carry fresh ids in the clone's own namespace.
	require.Len(t, fx.vectors.upserts, 1)
	call := fx.vectors.upserts[0]
	assert.Equal(t, resp.ID, call.namespace)
	for _, doc := range call.docs {
		assert.NotEqual(t, "src-d1", doc.ID)
		assert.Equal(t, resp.ID, doc.Metadata[entity.MetaChatbotID])
	}

	// The source file was copied rather than shared.
	_, err = blobStore.Get(context.Background(), "documents/100-faq.csv")
	assert.NoError(t, err)
	assert.Contains(t, blobStore.blobs, "documents/1-copy_faq.csv")
}

func TestCloneChatbotSkipsUnreadableTraining(t *testing.T) {
	repo := newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1", Name: "Support Bot"})
	trainingRepo := newFakeTrainingRepo(
		&entity.Training{
			ID:        "tr-good",
			ChatbotID: "bot-1",
			Files:     []entity.TrainingFile{{BlobKey: "documents/100-faq.csv", DocumentIDs: []string{"d1"}}},
		},
		&entity.Training{
			ID:        "tr-missing",
			ChatbotID: "bot-1",
			Files:     []entity.TrainingFile{{BlobKey: "documents/200-gone.csv", DocumentIDs: []string{"d2"}}},
		},
	)
	blobStore := newFakeBlobStore(map[string][]byte{
		"documents/100-faq.csv": []byte(faqCSV),
	})
	fx := newFixture(repo, trainingRepo, nil, blobStore)

	resp, err := fx.uc.CloneChatbot(context.Background(), "bot-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TrainingsCloned)
}
