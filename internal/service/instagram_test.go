package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"tumas_backend/internal/cache"
	"tumas_backend/internal/instagram"
	"tumas_backend/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES AND EMBED PROVIDER
// =============================================================================
//
// The service depends only on interfaces, so the tests swap in mocks
// with per-test behavior and call tracking. The embed provider mock
// matters most: several rules are about when a fetch may NOT happen.

type mockPostRepository struct {
	createFn          func(ctx context.Context, post *model.InstagramPost) error
	getByIDFn         func(ctx context.Context, id int64) (*model.InstagramPost, error)
	updateFn          func(ctx context.Context, post *model.InstagramPost) error
	deleteFn          func(ctx context.Context, id int64) error
	listActiveFn      func(ctx context.Context, limit int) ([]model.InstagramPost, error)
	listAllFn         func(ctx context.Context) ([]model.InstagramPost, error)
	existsByURLFn     func(ctx context.Context, postURL string, excludeID int64) (bool, error)
	maxDisplayOrderFn func(ctx context.Context) (int, error)

	createCalls []*model.InstagramPost
	updateCalls []*model.InstagramPost
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.InstagramPost) error {
	m.createCalls = append(m.createCalls, post)
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64) (*model.InstagramPost, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrInstagramPostNotFound
}

func (m *mockPostRepository) Update(ctx context.Context, post *model.InstagramPost) error {
	m.updateCalls = append(m.updateCalls, post)
	if m.updateFn != nil {
		return m.updateFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockPostRepository) ListActive(ctx context.Context, limit int) ([]model.InstagramPost, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockPostRepository) ListAll(ctx context.Context) ([]model.InstagramPost, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepository) GetActivePostURLs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockPostRepository) ExistsByURL(ctx context.Context, postURL string, excludeID int64) (bool, error) {
	if m.existsByURLFn != nil {
		return m.existsByURLFn(ctx, postURL, excludeID)
	}
	return false, nil
}

func (m *mockPostRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	if m.maxDisplayOrderFn != nil {
		return m.maxDisplayOrderFn(ctx)
	}
	return 0, nil
}

type mockConfigRepository struct {
	getFn    func(ctx context.Context) (*model.InstagramConfig, error)
	createFn func(ctx context.Context, cfg *model.InstagramConfig) error
	updateFn func(ctx context.Context, cfg *model.InstagramConfig) error
}

func (m *mockConfigRepository) Get(ctx context.Context) (*model.InstagramConfig, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, model.ErrConfigNotFound
}

func (m *mockConfigRepository) Create(ctx context.Context, cfg *model.InstagramConfig) error {
	if m.createFn != nil {
		return m.createFn(ctx, cfg)
	}
	return nil
}

func (m *mockConfigRepository) Update(ctx context.Context, cfg *model.InstagramConfig) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, cfg)
	}
	return nil
}

type mockEmbedProvider struct {
	getEmbedDataFn func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult

	getEmbedDataCalls []string
	clearCacheCalls   []string
	synthesizeCalls   []string
}

func (m *mockEmbedProvider) GetEmbedData(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
	m.getEmbedDataCalls = append(m.getEmbedDataCalls, postURL)
	if m.getEmbedDataFn != nil {
		return m.getEmbedDataFn(ctx, postURL, useCache)
	}
	return instagram.EmbedResult{Success: true, HTML: "<blockquote>live</blockquote>", OriginalURL: postURL}
}

func (m *mockEmbedProvider) SynthesizeFallback(postURL string, mediaURLs []string) *instagram.FallbackData {
	m.synthesizeCalls = append(m.synthesizeCalls, postURL)
	return &instagram.FallbackData{
		HTML:        "<div>fallback</div>",
		IsFallback:  true,
		IsCarousel:  len(mediaURLs) > 1,
		MediaCount:  len(mediaURLs),
		OriginalURL: postURL,
	}
}

func (m *mockEmbedProvider) ValidatePostContent(ctx context.Context, postURL, mediaURL string) (bool, string) {
	return true, ""
}

func (m *mockEmbedProvider) ClearCache(ctx context.Context, postURL string) {
	m.clearCacheCalls = append(m.clearCacheCalls, postURL)
}

// memStore is a throwaway in-memory cache.Store for the display-path
// caching.
type memStore struct {
	data    map[string][]byte
	deletes []string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := s.data[key]
	return val, ok
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.data[key] = value
}

func (s *memStore) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(s.data, key)
		s.deletes = append(s.deletes, key)
	}
}

func newTestService() (*InstagramService, *mockPostRepository, *mockConfigRepository, *mockEmbedProvider) {
	postRepo := &mockPostRepository{}
	configRepo := &mockConfigRepository{}
	embed := &mockEmbedProvider{}
	return NewInstagramService(postRepo, configRepo, embed, newMemStore()), postRepo, configRepo, embed
}

const validPostURL = "https://www.instagram.com/p/Cxyz123/"

// =============================================================================
// CREATE / UPDATE TESTS
// =============================================================================

func TestInstagramService_CreatePost_Success(t *testing.T) {
	svc, postRepo, _, _ := newTestService()

	post, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL:  validPostURL,
		Caption:  "Workshop recap",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.PostType != model.PostTypeImage {
		t.Errorf("post_type = %q, want image default", post.PostType)
	}
	if len(postRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(postRepo.createCalls))
	}
}

func TestInstagramService_CreatePost_InvalidURL(t *testing.T) {
	svc, postRepo, _, _ := newTestService()

	_, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL: "https://example.com/not-instagram",
	})
	if !errors.Is(err, model.ErrInvalidPostURL) {
		t.Errorf("error = %v, want ErrInvalidPostURL", err)
	}
	if len(postRepo.createCalls) != 0 {
		t.Error("Create must not be called for an invalid URL")
	}
}

func TestInstagramService_CreatePost_InvalidType(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL:  validPostURL,
		PostType: "story",
	})
	if !errors.Is(err, model.ErrInvalidPostType) {
		t.Errorf("error = %v, want ErrInvalidPostType", err)
	}
}

func TestInstagramService_CreatePost_DuplicateURL(t *testing.T) {
	svc, postRepo, _, _ := newTestService()
	postRepo.existsByURLFn = func(ctx context.Context, postURL string, excludeID int64) (bool, error) {
		return true, nil
	}

	_, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL: validPostURL,
	})
	if !errors.Is(err, model.ErrDuplicatePostURL) {
		t.Errorf("error = %v, want ErrDuplicatePostURL", err)
	}
}

func TestInstagramService_CreatePost_CuratorRules(t *testing.T) {
	svc, _, _, _ := newTestService()

	// Two URLs in the free-text field force the carousel type and fill
	// the primary media URL from the first.
	post, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL:       validPostURL,
		MediaURLsText: "https://example.com/a.jpg\nhttps://example.com/b.jpg",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.PostType != model.PostTypeCarousel {
		t.Errorf("post_type = %q, want carousel", post.PostType)
	}
	if post.PrimaryMediaURL != "https://example.com/a.jpg" {
		t.Errorf("primary_media_url = %q, want the first parsed URL", post.PrimaryMediaURL)
	}
	if len(post.MediaURLs) != 2 {
		t.Errorf("media_urls has %d entries, want 2", len(post.MediaURLs))
	}
}

func TestInstagramService_CreatePost_SingleMediaKeepsType(t *testing.T) {
	svc, _, _, _ := newTestService()

	post, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL:       validPostURL,
		MediaURLsText: "https://example.com/a.jpg",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.PostType != model.PostTypeImage {
		t.Errorf("post_type = %q, want image", post.PostType)
	}
}

func TestInstagramService_CreatePost_NoValidMedia(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreatePost(context.Background(), model.CreateInstagramPostRequest{
		PostURL:       validPostURL,
		MediaURLsText: "definitely not a url",
	})
	if !errors.Is(err, model.ErrNoValidMediaURLs) {
		t.Errorf("error = %v, want ErrNoValidMediaURLs", err)
	}
}

func TestInstagramService_UpdatePost_KeepOwnURL(t *testing.T) {
	svc, postRepo, _, embed := newTestService()
	postRepo.getByIDFn = func(ctx context.Context, id int64) (*model.InstagramPost, error) {
		return &model.InstagramPost{ID: 7, PostURL: validPostURL}, nil
	}
	var gotExclude int64
	postRepo.existsByURLFn = func(ctx context.Context, postURL string, excludeID int64) (bool, error) {
		gotExclude = excludeID
		return false, nil
	}

	_, err := svc.UpdatePost(context.Background(), 7, model.CreateInstagramPostRequest{
		PostURL: validPostURL,
		Caption: "updated",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	// The uniqueness check must exclude the post itself so it can keep
	// its own URL.
	if gotExclude != 7 {
		t.Errorf("excludeID = %d, want 7", gotExclude)
	}
	if len(embed.clearCacheCalls) != 1 {
		t.Errorf("ClearCache called %d times, want 1", len(embed.clearCacheCalls))
	}
}

func TestInstagramService_UpdatePost_TakenURL(t *testing.T) {
	svc, postRepo, _, _ := newTestService()
	postRepo.getByIDFn = func(ctx context.Context, id int64) (*model.InstagramPost, error) {
		return &model.InstagramPost{ID: 7, PostURL: validPostURL}, nil
	}
	postRepo.existsByURLFn = func(ctx context.Context, postURL string, excludeID int64) (bool, error) {
		return true, nil
	}

	_, err := svc.UpdatePost(context.Background(), 7, model.CreateInstagramPostRequest{
		PostURL: "https://www.instagram.com/p/Other456/",
	})
	if !errors.Is(err, model.ErrDuplicatePostURL) {
		t.Errorf("error = %v, want ErrDuplicatePostURL", err)
	}
}

func TestInstagramService_UpdatePost_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdatePost(context.Background(), 99, model.CreateInstagramPostRequest{
		PostURL: validPostURL,
	})
	if !errors.Is(err, model.ErrInstagramPostNotFound) {
		t.Errorf("error = %v, want ErrInstagramPostNotFound", err)
	}
}

// =============================================================================
// QUICK ADD TESTS
// =============================================================================

func TestInstagramService_QuickAdd_AppendsDisplayOrder(t *testing.T) {
	svc, postRepo, _, embed := newTestService()
	postRepo.maxDisplayOrderFn = func(ctx context.Context) (int, error) {
		return 4, nil
	}

	post, err := svc.QuickAdd(context.Background(), model.QuickAddRequest{
		PostURL: validPostURL,
		Caption: "quick",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.DisplayOrder != 5 {
		t.Errorf("display_order = %d, want 5", post.DisplayOrder)
	}
	if !post.IsActive {
		t.Error("quick-added posts should be active")
	}
	if len(embed.getEmbedDataCalls) != 0 {
		t.Error("no embed fetch without auto-extract")
	}
}

func TestInstagramService_QuickAdd_AutoExtract(t *testing.T) {
	svc, _, _, embed := newTestService()
	embed.getEmbedDataFn = func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
		if useCache {
			t.Error("auto-extract should bypass the cache")
		}
		return instagram.EmbedResult{
			Success:      true,
			ThumbnailURL: "https://scontent.cdninstagram.com/thumb.jpg",
			Title:        "Extracted caption",
		}
	}

	post, err := svc.QuickAdd(context.Background(), model.QuickAddRequest{
		PostURL:          validPostURL,
		AutoExtractMedia: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.PrimaryMediaURL != "https://scontent.cdninstagram.com/thumb.jpg" {
		t.Errorf("primary_media_url = %q, want the extracted thumbnail", post.PrimaryMediaURL)
	}
	if post.Caption != "Extracted caption" {
		t.Errorf("caption = %q, want the extracted title", post.Caption)
	}
}

func TestInstagramService_QuickAdd_ExtractionFailureIgnored(t *testing.T) {
	svc, postRepo, _, embed := newTestService()
	embed.getEmbedDataFn = func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
		return instagram.EmbedResult{Success: false, Error: "network down"}
	}

	post, err := svc.QuickAdd(context.Background(), model.QuickAddRequest{
		PostURL:          validPostURL,
		Caption:          "manual caption",
		AutoExtractMedia: true,
	})
	if err != nil {
		t.Fatalf("extraction failure must not fail the create, got: %v", err)
	}
	if post.Caption != "manual caption" {
		t.Errorf("caption = %q, want the manual caption kept", post.Caption)
	}
	if len(postRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(postRepo.createCalls))
	}
}

// =============================================================================
// DISPLAY SECTION TESTS
// =============================================================================

func TestInstagramService_DisplaySection_StoredMediaNeverFetches(t *testing.T) {
	svc, postRepo, configRepo, embed := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true, MaxCaptionLength: 150}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{
			{
				ID:              1,
				PostURL:         validPostURL,
				PrimaryMediaURL: "https://example.com/a.jpg",
				MediaURLs:       model.URLList{"https://example.com/b.jpg"},
			},
		}, nil
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(section.Posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(section.Posts))
	}

	dp := section.Posts[0]
	if !dp.Embed.UseFallback {
		t.Error("stored-media posts must render from fallback")
	}
	if dp.Embed.Fallback == nil || !dp.Embed.Fallback.IsCarousel {
		t.Error("two stored media URLs should synthesize a carousel fallback")
	}

	// The hard rule: manually curated posts never trigger a fetch.
	if len(embed.getEmbedDataCalls) != 0 {
		t.Errorf("GetEmbedData called %d times for a stored-media post, want 0", len(embed.getEmbedDataCalls))
	}
	if len(embed.synthesizeCalls) != 1 {
		t.Errorf("SynthesizeFallback called %d times, want 1", len(embed.synthesizeCalls))
	}
}

func TestInstagramService_DisplaySection_NoMediaFetchesCached(t *testing.T) {
	svc, postRepo, configRepo, embed := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{{ID: 1, PostURL: validPostURL}}, nil
	}
	embed.getEmbedDataFn = func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
		if !useCache {
			t.Error("display path should use the cache")
		}
		return instagram.EmbedResult{Success: true, HTML: "<blockquote>live</blockquote>"}
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(embed.getEmbedDataCalls) != 1 {
		t.Errorf("GetEmbedData called %d times, want 1", len(embed.getEmbedDataCalls))
	}
	if !section.Posts[0].Embed.Success {
		t.Error("expected the live embed result")
	}
}

func TestInstagramService_DisplaySection_CachesDisplayPayload(t *testing.T) {
	svc, postRepo, configRepo, embed := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{{ID: 1, PostURL: validPostURL}}, nil
	}

	if _, err := svc.DisplaySection(context.Background()); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if _, err := svc.DisplaySection(context.Background()); err != nil {
		t.Fatalf("second render: %v", err)
	}

	// The second render is served from the per-post display cache.
	if len(embed.getEmbedDataCalls) != 1 {
		t.Errorf("GetEmbedData called %d times across two renders, want 1", len(embed.getEmbedDataCalls))
	}
}

func TestInstagramService_DisplaySection_FailedEmbedNotSnapshotted(t *testing.T) {
	svc, postRepo, configRepo, embed := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{{ID: 1, PostURL: validPostURL}}, nil
	}
	embed.getEmbedDataFn = func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
		if len(embed.getEmbedDataCalls) == 1 {
			return instagram.EmbedResult{Success: false, Error: "network down", OriginalURL: postURL}
		}
		return instagram.EmbedResult{Success: true, HTML: "<blockquote>live</blockquote>", OriginalURL: postURL}
	}

	if _, err := svc.DisplaySection(context.Background()); err != nil {
		t.Fatalf("first render: %v", err)
	}

	// The provider recovers. A failed live embed must not have been
	// snapshotted, so the second render fetches again and succeeds.
	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(embed.getEmbedDataCalls) != 2 {
		t.Errorf("GetEmbedData called %d times across two renders, want 2", len(embed.getEmbedDataCalls))
	}
	if !section.Posts[0].Embed.Success {
		t.Errorf("second render embed failed: %q", section.Posts[0].Embed.Error)
	}
}

func TestInstagramService_DisplaySection_InactiveConfig(t *testing.T) {
	svc, postRepo, configRepo, _ := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{IsActive: false}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		t.Error("posts must not be loaded when the section is inactive")
		return nil, nil
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if section.IsActive {
		t.Error("expected inactive section")
	}
	if len(section.Posts) != 0 {
		t.Errorf("got %d posts, want 0", len(section.Posts))
	}
}

func TestInstagramService_DisplaySection_MissingConfigUsesDefaults(t *testing.T) {
	svc, postRepo, _, _ := newTestService()
	var gotLimit int
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		gotLimit = limit
		return nil, nil
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !section.IsActive {
		t.Error("default config should be active")
	}
	if gotLimit != 6 {
		t.Errorf("limit = %d, want the default posts_per_page of 6", gotLimit)
	}
}

func TestInstagramService_DisplaySection_CaptionTruncation(t *testing.T) {
	svc, postRepo, configRepo, _ := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true, MaxCaptionLength: 20}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{
			{ID: 1, PostURL: validPostURL, Caption: "a rather long caption that keeps going", PrimaryMediaURL: "https://example.com/a.jpg"},
			{ID: 2, PostURL: validPostURL, Caption: "short", PrimaryMediaURL: "https://example.com/b.jpg"},
		}, nil
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	long := section.Posts[0]
	if !long.NeedsReadMore {
		t.Error("expected NeedsReadMore for the long caption")
	}
	if len(long.TruncatedCaption) > 20 {
		t.Errorf("truncated caption is %d bytes, want <= 20", len(long.TruncatedCaption))
	}
	if strings.HasSuffix(long.TruncatedCaption, " ") {
		t.Error("truncation should end at a word boundary, not a space")
	}

	short := section.Posts[1]
	if short.NeedsReadMore {
		t.Error("short captions need no truncation")
	}
	if short.TruncatedCaption != "" {
		t.Errorf("truncated caption = %q, want empty", short.TruncatedCaption)
	}
}

func TestInstagramService_DisplaySection_MultibyteCaptionTruncation(t *testing.T) {
	svc, postRepo, configRepo, _ := newTestService()
	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{PostsPerPage: 6, IsActive: true, MaxCaptionLength: 20}, nil
	}
	postRepo.listActiveFn = func(ctx context.Context, limit int) ([]model.InstagramPost, error) {
		return []model.InstagramPost{
			// 25 runes, 50 bytes: over the limit.
			{ID: 1, PostURL: validPostURL, Caption: strings.Repeat("ë", 25), PrimaryMediaURL: "https://example.com/a.jpg"},
			// 15 runes, 30 bytes: under the limit despite its byte count.
			{ID: 2, PostURL: validPostURL, Caption: strings.Repeat("ë", 15), PrimaryMediaURL: "https://example.com/b.jpg"},
		}, nil
	}

	section, err := svc.DisplaySection(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	long := section.Posts[0]
	if !long.NeedsReadMore {
		t.Error("expected NeedsReadMore for the 25-rune caption")
	}
	if !utf8.ValidString(long.TruncatedCaption) {
		t.Errorf("truncated caption is not valid UTF-8: %q", long.TruncatedCaption)
	}
	if n := utf8.RuneCountInString(long.TruncatedCaption); n > 20 {
		t.Errorf("truncated caption is %d runes, want <= 20", n)
	}

	short := section.Posts[1]
	if short.NeedsReadMore {
		t.Error("a 15-rune caption fits; byte length must not trigger read-more")
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestInstagramService_CreateConfig_Once(t *testing.T) {
	svc, _, configRepo, _ := newTestService()

	cfg, err := svc.CreateConfig(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.PostsPerPage != 6 || !cfg.IsActive {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	configRepo.createFn = func(ctx context.Context, c *model.InstagramConfig) error {
		return model.ErrConfigExists
	}
	_, err = svc.CreateConfig(context.Background())
	if !errors.Is(err, model.ErrConfigExists) {
		t.Errorf("error = %v, want ErrConfigExists", err)
	}
}

func TestInstagramService_UpdateConfig_InvalidatesDisplayCache(t *testing.T) {
	postRepo := &mockPostRepository{}
	configRepo := &mockConfigRepository{}
	store := newMemStore()
	svc := NewInstagramService(postRepo, configRepo, &mockEmbedProvider{}, store)

	configRepo.getFn = func(ctx context.Context) (*model.InstagramConfig, error) {
		return &model.InstagramConfig{ID: 1, PostsPerPage: 6, IsActive: true, MaxCaptionLength: 150}, nil
	}
	postRepo.listAllFn = func(ctx context.Context) ([]model.InstagramPost, error) {
		return []model.InstagramPost{{ID: 4, PostURL: validPostURL}}, nil
	}
	store.data[cache.PostDataKey(4)] = []byte(`{"needs_read_more":true}`)

	if _, err := svc.UpdateConfig(context.Background(), model.UpdateInstagramConfigRequest{
		PostsPerPage:     6,
		IsActive:         true,
		MaxCaptionLength: 80,
	}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The old snapshot bakes in the old caption limit.
	if _, ok := store.data[cache.PostDataKey(4)]; ok {
		t.Error("display snapshot survived the config update")
	}
	if len(store.deletes) != 1 || store.deletes[0] != cache.PostDataKey(4) {
		t.Errorf("deletes = %v, want the post's display key", store.deletes)
	}
}

func TestInstagramService_DeleteConfig_AlwaysForbidden(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.DeleteConfig(context.Background())
	if !errors.Is(err, model.ErrConfigDeleteForbidden) {
		t.Errorf("error = %v, want ErrConfigDeleteForbidden", err)
	}
}

// =============================================================================
// DELETE / REFRESH TESTS
// =============================================================================

func TestInstagramService_DeletePost_ClearsCache(t *testing.T) {
	svc, postRepo, _, embed := newTestService()
	postRepo.getByIDFn = func(ctx context.Context, id int64) (*model.InstagramPost, error) {
		return &model.InstagramPost{ID: 3, PostURL: validPostURL}, nil
	}

	if err := svc.DeletePost(context.Background(), 3); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(embed.clearCacheCalls) != 1 || embed.clearCacheCalls[0] != validPostURL {
		t.Errorf("clearCacheCalls = %v, want the deleted post's URL", embed.clearCacheCalls)
	}
}

func TestInstagramService_RefreshPost(t *testing.T) {
	svc, _, _, embed := newTestService()
	embed.getEmbedDataFn = func(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult {
		if useCache {
			t.Error("refresh must bypass the cache")
		}
		return instagram.EmbedResult{Success: true}
	}

	result := svc.RefreshPost(context.Background(), validPostURL)
	if !result.Success {
		t.Error("expected the fresh fetch result")
	}
	if len(embed.clearCacheCalls) != 1 {
		t.Errorf("ClearCache called %d times, want 1", len(embed.clearCacheCalls))
	}
}

func TestInstagramService_ValidateURL_FormatFirst(t *testing.T) {
	svc, _, _, _ := newTestService()

	valid, msg := svc.ValidateURL(context.Background(), "https://example.com/x")
	if valid {
		t.Error("expected invalid format")
	}
	if msg == "" {
		t.Error("expected a message naming the problem")
	}
}
