package website_test

import (
	"context"
	"testing"

	"github.com/botforge/chatbot-backend/internal/entity"
	"github.com/botforge/chatbot-backend/internal/integration/vectorindex"
	"github.com/botforge/chatbot-backend/internal/pkg/chunker"
	"github.com/botforge/chatbot-backend/internal/repository"
	"github.com/botforge/chatbot-backend/internal/usecase/website"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChatbotRepo struct {
	repository.ChatbotRepository
	bots      map[string]*entity.Chatbot
	connected map[string][]string
}

func newFakeChatbotRepo(bots ...*entity.Chatbot) *fakeChatbotRepo {
	repo := &fakeChatbotRepo{
		bots:      map[string]*entity.Chatbot{},
		connected: map[string][]string{},
	}
	for _, b := range bots {
		repo.bots[b.ID] = b
	}
	return repo
}

func (f *fakeChatbotRepo) Get(_ context.Context, id string) (*entity.Chatbot, error) {
	bot, ok := f.bots[id]
	if !ok {
		return nil, entity.ErrChatbotNotFound
	}
	return bot, nil
}

func (f *fakeChatbotRepo) AddConnectedWebsite(_ context.Context, id, websiteID string) error {
	if _, ok := f.bots[id]; !ok {
		return entity.ErrChatbotNotFound
	}
	f.connected[id] = append(f.connected[id], websiteID)
	return nil
}

func (f *fakeChatbotRepo) RemoveConnectedWebsite(_ context.Context, id, websiteID string) error {
	if _, ok := f.bots[id]; !ok {
		return entity.ErrChatbotNotFound
	}
	kept := f.connected[id][:0]
	for _, w := range f.connected[id] {
		if w != websiteID {
			kept = append(kept, w)
		}
	}
	f.connected[id] = kept
	return nil
}

type fakeWebsiteRepo struct {
	repository.WebsiteRepository
	sites   map[string]*entity.Website
	deleted []string
}

func newFakeWebsiteRepo(sites ...*entity.Website) *fakeWebsiteRepo {
	repo := &fakeWebsiteRepo{sites: map[string]*entity.Website{}}
	for _, s := range sites {
		repo.sites[s.ID] = s
	}
	return repo
}

func (f *fakeWebsiteRepo) Create(_ context.Context, site entity.Website) (*entity.Website, error) {
	created := site
	f.sites[site.ID] = &created
	return &created, nil
}

func (f *fakeWebsiteRepo) Get(_ context.Context, id string) (*entity.Website, error) {
	site, ok := f.sites[id]
	if !ok {
		return nil, entity.ErrWebsiteNotFound
	}
	return site, nil
}

func (f *fakeWebsiteRepo) Update(_ context.Context, site entity.Website) (*entity.Website, error) {
	updated := site
	f.sites[site.ID] = &updated
	return &updated, nil
}

func (f *fakeWebsiteRepo) Delete(_ context.Context, id string) error {
	delete(f.sites, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeWpPostRepo struct {
	repository.WpPostRepository
	posts   map[string]*entity.WpPost
	deleted []string
}

func newFakeWpPostRepo(posts ...*entity.WpPost) *fakeWpPostRepo {
	repo := &fakeWpPostRepo{posts: map[string]*entity.WpPost{}}
	for _, p := range posts {
		repo.posts[p.ID] = p
	}
	return repo
}

func (f *fakeWpPostRepo) Create(_ context.Context, post entity.WpPost) (*entity.WpPost, error) {
	created := post
	f.posts[post.ID] = &created
	return &created, nil
}

func (f *fakeWpPostRepo) GetByWebsiteAndWpID(_ context.Context, websiteID, wpID string) (*entity.WpPost, error) {
	for _, p := range f.posts {
		if p.WebsiteID == websiteID && p.WpID == wpID {
			return p, nil
		}
	}
	return nil, entity.ErrWpPostNotFound
}

func (f *fakeWpPostRepo) ListByWebsite(_ context.Context, websiteID string) ([]*entity.WpPost, error) {
	var out []*entity.WpPost
	for _, p := range f.posts {
		if p.WebsiteID == websiteID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeWpPostRepo) Delete(_ context.Context, id string) error {
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type upsertCall struct {
	index     vectorindex.Index
	namespace string
	docs      []entity.VectorDocument
}

type fakeVectorIndex struct {
	upserts    []upsertCall
	deletedIDs []string
}

func (f *fakeVectorIndex) Upsert(_ context.Context, index vectorindex.Index, namespace string, docs []entity.VectorDocument) error {
	f.upserts = append(f.upserts, upsertCall{index: index, namespace: namespace, docs: docs})
	return nil
}

func (f *fakeVectorIndex) DeleteByIDs(_ context.Context, _ vectorindex.Index, _ string, ids []string) error {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return nil
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) InvalidateChatConfig(chatbotID string) {
	f.invalidated = append(f.invalidated, chatbotID)
}

type fixture struct {
	uc          *website.WebsiteUsecase
	chatbotRepo *fakeChatbotRepo
	websiteRepo *fakeWebsiteRepo
	wpPostRepo  *fakeWpPostRepo
	vectors     *fakeVectorIndex
	invalidator *fakeInvalidator
}

func newFixture(chatbotRepo *fakeChatbotRepo, websiteRepo *fakeWebsiteRepo, wpPostRepo *fakeWpPostRepo) *fixture {
	vectors := &fakeVectorIndex{}
	invalidator := &fakeInvalidator{}

	uc := website.NewUsecase(
		websiteRepo,
		chatbotRepo,
		wpPostRepo,
		vectors,
		invalidator,
		chunker.New(),
		zap.NewNop(),
	)

	return &fixture{
		uc:          uc,
		chatbotRepo: chatbotRepo,
		websiteRepo: websiteRepo,
		wpPostRepo:  wpPostRepo,
		vectors:     vectors,
		invalidator: invalidator,
	}
}

func TestCreateWebsiteCopiesBotSettings(t *testing.T) {
	bot := &entity.Chatbot{
		ID:           "bot-1",
		Name:         "Support Bot",
		Description:  "Answers product questions.",
		Temperature:  0.4,
		Instructions: "Be brief.",
		LLM:          entity.DefaultLLMSettings(),
	}
	fx := newFixture(newFakeChatbotRepo(bot), newFakeWebsiteRepo(), newFakeWpPostRepo())

	site, err := fx.uc.CreateWebsite(context.Background(), &entity.CreateWebsiteRequest{
		ChatbotID:  "bot-1",
		DomainName: "shop.example.com",
		CreatorID:  "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Support Bot", site.Name)
	assert.Equal(t, "Answers product questions.", site.Description)
	assert.Equal(t, 0.4, site.Temperature)
	assert.Equal(t, "Be brief.", site.Instructions)

	assert.Equal(t, []string{site.ID}, fx.chatbotRepo.connected["bot-1"])
}

func TestCreateWebsiteRequiresDomain(t *testing.T) {
	fx := newFixture(newFakeChatbotRepo(), newFakeWebsiteRepo(), newFakeWpPostRepo())

	_, err := fx.uc.CreateWebsite(context.Background(), &entity.CreateWebsiteRequest{
		ChatbotID: "bot-1",
	})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestUpdateWebsiteInvalidatesChatConfig(t *testing.T) {
	fx := newFixture(
		newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1"}),
		newFakeWebsiteRepo(&entity.Website{ID: "site-1", ChatbotID: "bot-1", LLM: entity.DefaultLLMSettings()}),
		newFakeWpPostRepo(),
	)

	name := "New Name"
	updated, err := fx.uc.UpdateWebsite(context.Background(), &entity.UpdateWebsiteRequest{
		ID:   "site-1",
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, []string{"bot-1"}, fx.invalidator.invalidated)
}

const postHTML = `<html><body>
<h1>Summer sale</h1>
<p>Every widget ships free until the end of August.</p>
<script>trackPageView();</script>
</body></html>`

func TestSyncWpPostFirstSync(t *testing.T) {
	fx := newFixture(
		newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1"}),
		newFakeWebsiteRepo(&entity.Website{ID: "site-1", ChatbotID: "bot-1"}),
		newFakeWpPostRepo(),
	)

	resp, err := fx.uc.SyncWpPost(context.Background(), &entity.SyncWpPostRequest{
		ChatbotID: "bot-1",
		WebsiteID: "site-1",
		WpID:      "42",
		Title:     "Summer sale",
		HTML:      postHTML,
	})
	require.NoError(t, err)

	assert.False(t, resp.Replaced)
	assert.Greater(t, resp.ChunkCount, 0)

	require.Len(t, fx.vectors.upserts, 1)
	call := fx.vectors.upserts[0]
	assert.Equal(t, vectorindex.IndexWpPost, call.index)
	assert.Equal(t, "bot-1", call.namespace)
	for _, doc := range call.docs {
		assert.Equal(t, "site-1", doc.Metadata[entity.MetaWebsiteID])
		assert.Equal(t, "42", doc.Metadata[entity.MetaWpID])
	}

	post, err := fx.wpPostRepo.GetByWebsiteAndWpID(context.Background(), "site-1", "42")
	require.NoError(t, err)
	assert.Equal(t, "Summer sale", post.Title)
}

func TestSyncWpPostReplacesPreviousVersion(t *testing.T) {
	fx := newFixture(
		newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1"}),
		newFakeWebsiteRepo(&entity.Website{ID: "site-1", ChatbotID: "bot-1"}),
		newFakeWpPostRepo(&entity.WpPost{
			ID:          "post-old",
			ChatbotID:   "bot-1",
			WebsiteID:   "site-1",
			WpID:        "42",
			Title:       "Summer sale",
			DocumentIDs: []string{"old-d1", "old-d2"},
		}),
	)

	resp, err := fx.uc.SyncWpPost(context.Background(), &entity.SyncWpPostRequest{
		ChatbotID: "bot-1",
		WebsiteID: "site-1",
		WpID:      "42",
		Title:     "Summer sale",
		HTML:      postHTML,
	})
	require.NoError(t, err)

	assert.True(t, resp.Replaced)
	assert.ElementsMatch(t, []string{"old-d1", "old-d2"}, fx.vectors.deletedIDs)
	assert.Contains(t, fx.wpPostRepo.deleted, "post-old")

	// Only the fresh record remains for this (website, wpId) pair.
	post, err := fx.wpPostRepo.GetByWebsiteAndWpID(context.Background(), "site-1", "42")
	require.NoError(t, err)
	assert.NotEqual(t, "post-old", post.ID)
}

func TestSyncWpPostRequiresWpID(t *testing.T) {
	fx := newFixture(newFakeChatbotRepo(), newFakeWebsiteRepo(), newFakeWpPostRepo())

	_, err := fx.uc.SyncWpPost(context.Background(), &entity.SyncWpPostRequest{
		ChatbotID: "bot-1",
		WebsiteID: "site-1",
	})
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestSyncWpPostRejectsEmptyContent(t *testing.T) {
	fx := newFixture(
		newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1"}),
		newFakeWebsiteRepo(&entity.Website{ID: "site-1", ChatbotID: "bot-1"}),
		newFakeWpPostRepo(),
	)

	_, err := fx.uc.SyncWpPost(context.Background(), &entity.SyncWpPostRequest{
		ChatbotID: "bot-1",
		WebsiteID: "site-1",
		WpID:      "42",
		HTML:      "<html><body><script>only()</script></body></html>",
	})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestDeleteWebsiteCascades(t *testing.T) {
	chatbotRepo := newFakeChatbotRepo(&entity.Chatbot{ID: "bot-1"})
	chatbotRepo.connected["bot-1"] = []string{"site-1"}
	fx := newFixture(
		chatbotRepo,
		newFakeWebsiteRepo(&entity.Website{ID: "site-1", ChatbotID: "bot-1"}),
		newFakeWpPostRepo(&entity.WpPost{
			ID:          "post-1",
			ChatbotID:   "bot-1",
			WebsiteID:   "site-1",
			WpID:        "42",
			DocumentIDs: []string{"d1", "d2"},
		}),
	)

	resp, err := fx.uc.DeleteWebsite(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", resp.Status)

	assert.Equal(t, []string{"site-1"}, fx.websiteRepo.deleted)
	assert.ElementsMatch(t, []string{"d1", "d2"}, fx.vectors.deletedIDs)
	assert.Empty(t, chatbotRepo.connected["bot-1"])
	assert.Equal(t, []string{"bot-1"}, fx.invalidator.invalidated)
}
