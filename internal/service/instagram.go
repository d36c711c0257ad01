package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"tumas_backend/internal/cache"
	"tumas_backend/internal/instagram"
	"tumas_backend/internal/model"
	"tumas_backend/internal/repository"
)

// EmbedProvider is the embed-service surface the Instagram service
// depends on. An interface so tests can assert that curated posts with
// stored media never trigger a fetch.
type EmbedProvider interface {
	GetEmbedData(ctx context.Context, postURL string, useCache bool) instagram.EmbedResult
	SynthesizeFallback(postURL string, mediaURLs []string) *instagram.FallbackData
	ValidatePostContent(ctx context.Context, postURL, mediaURL string) (bool, string)
	ClearCache(ctx context.Context, postURL string)
}

// DisplayPost is a curated post prepared for rendering: the stored
// record, its embed payload (real or synthesized), and the caption
// truncation metadata the frontend needs for "read more".
type DisplayPost struct {
	Post             model.InstagramPost   `json:"post"`
	Embed            instagram.EmbedResult `json:"embed"`
	TruncatedCaption string                `json:"truncated_caption,omitempty"`
	NeedsReadMore    bool                  `json:"needs_read_more"`
}

// InstagramSection is the public payload for the Instagram block.
type InstagramSection struct {
	IsActive bool                   `json:"is_active"`
	Config   *model.InstagramConfig `json:"config,omitempty"`
	Posts    []DisplayPost          `json:"posts"`
}

// Homepage cards fall back to this truncation length when the config
// sets no limit.
const defaultCaptionLength = 150

// Auto-extracted captions are capped like the original admin form.
const maxExtractedCaption = 2000

type InstagramService struct {
	postRepo   repository.InstagramPostRepository
	configRepo repository.InstagramConfigRepository
	embed      EmbedProvider
	store      cache.Store
}

func NewInstagramService(
	postRepo repository.InstagramPostRepository,
	configRepo repository.InstagramConfigRepository,
	embed EmbedProvider,
	store cache.Store,
) *InstagramService {
	return &InstagramService{
		postRepo:   postRepo,
		configRepo: configRepo,
		embed:      embed,
		store:      store,
	}
}

var validPostTypes = map[string]struct{}{
	model.PostTypeImage:    {},
	model.PostTypeCarousel: {},
	model.PostTypeVideo:    {},
	model.PostTypeReel:     {},
}

// CreatePost handles the full admin form: URL validation, uniqueness,
// curator parsing of the free-text media field, and the carousel/type/
// primary-media rules.
func (s *InstagramService) CreatePost(ctx context.Context, req model.CreateInstagramPostRequest) (*model.InstagramPost, error) {
	if !instagram.IsValidPostURL(req.PostURL) {
		return nil, model.ErrInvalidPostURL
	}

	postType := req.PostType
	if postType == "" {
		postType = model.PostTypeImage
	}
	if _, ok := validPostTypes[postType]; !ok {
		return nil, model.ErrInvalidPostType
	}

	exists, err := s.postRepo.ExistsByURL(ctx, req.PostURL, 0)
	if err != nil {
		return nil, fmt.Errorf("check post url: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicatePostURL
	}

	post := &model.InstagramPost{
		PostURL:         req.PostURL,
		Caption:         req.Caption,
		PostType:        postType,
		PrimaryMediaURL: req.PrimaryMediaURL,
		MediaURLs:       model.URLList{},
		DisplayOrder:    req.DisplayOrder,
		IsActive:        req.IsActive,
	}

	if err := s.applyCuratedMedia(post, req.MediaURLsText); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	log.Printf("[InstagramService] Created post %d for %s", post.ID, post.PostURL)
	return post, nil
}

// UpdatePost edits a post. The post may keep its own URL but not adopt
// another post's.
func (s *InstagramService) UpdatePost(ctx context.Context, id int64, req model.CreateInstagramPostRequest) (*model.InstagramPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !instagram.IsValidPostURL(req.PostURL) {
		return nil, model.ErrInvalidPostURL
	}

	postType := req.PostType
	if postType == "" {
		postType = model.PostTypeImage
	}
	if _, ok := validPostTypes[postType]; !ok {
		return nil, model.ErrInvalidPostType
	}

	exists, err := s.postRepo.ExistsByURL(ctx, req.PostURL, id)
	if err != nil {
		return nil, fmt.Errorf("check post url: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicatePostURL
	}

	post.PostURL = req.PostURL
	post.Caption = req.Caption
	post.PostType = postType
	post.PrimaryMediaURL = req.PrimaryMediaURL
	post.DisplayOrder = req.DisplayOrder
	post.IsActive = req.IsActive

	if req.MediaURLsText != "" {
		post.MediaURLs = model.URLList{}
		if err := s.applyCuratedMedia(post, req.MediaURLsText); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	// Stored media changed; force the next lookup live.
	s.embed.ClearCache(ctx, post.PostURL)
	s.store.Delete(ctx, cache.PostDataKey(post.ID))
	return post, nil
}

// applyCuratedMedia runs the curator over the free-text media field and
// applies the write-time rules: more than one URL makes the post a
// carousel, a single URL keeps an unset/"image" type as image, and an
// empty primary media URL is filled with the first parsed URL.
func (s *InstagramService) applyCuratedMedia(post *model.InstagramPost, mediaText string) error {
	if strings.TrimSpace(mediaText) == "" {
		return nil
	}

	urls, err := instagram.ParseMediaURLText(mediaText)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}

	post.MediaURLs = model.URLList(urls)
	if len(urls) > 1 {
		post.PostType = model.PostTypeCarousel
	} else if post.PostType == "" || post.PostType == model.PostTypeImage {
		post.PostType = model.PostTypeImage
	}
	if post.PrimaryMediaURL == "" {
		post.PrimaryMediaURL = urls[0]
	}
	return nil
}

// QuickAdd creates a post from just a URL and optional caption. Display
// order defaults past the current maximum so new posts append. When a
// provider credential is configured, the embed service is consulted
// once to auto-fill the thumbnail and caption; extraction failures are
// ignored - the post works without them.
func (s *InstagramService) QuickAdd(ctx context.Context, req model.QuickAddRequest) (*model.InstagramPost, error) {
	if !instagram.IsValidPostURL(req.PostURL) {
		return nil, model.ErrInvalidPostURL
	}

	exists, err := s.postRepo.ExistsByURL(ctx, req.PostURL, 0)
	if err != nil {
		return nil, fmt.Errorf("check post url: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicatePostURL
	}

	maxOrder, err := s.postRepo.MaxDisplayOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("get max display order: %w", err)
	}

	post := &model.InstagramPost{
		PostURL:      req.PostURL,
		Caption:      req.Caption,
		PostType:     model.PostTypeImage,
		MediaURLs:    model.URLList{},
		DisplayOrder: maxOrder + 1,
		IsActive:     true,
	}

	if req.AutoExtractMedia {
		embed := s.embed.GetEmbedData(ctx, req.PostURL, false)
		if embed.Success {
			if embed.ThumbnailURL != "" && post.PrimaryMediaURL == "" {
				post.PrimaryMediaURL = embed.ThumbnailURL
			}
			if post.Caption == "" && embed.Title != "" {
				caption := embed.Title
				if runes := []rune(caption); len(runes) > maxExtractedCaption {
					caption = string(runes[:maxExtractedCaption])
				}
				post.Caption = caption
			}
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	log.Printf("[InstagramService] Quick-added post %d for %s", post.ID, post.PostURL)
	return post, nil
}

func (s *InstagramService) GetPost(ctx context.Context, id int64) (*model.InstagramPost, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *InstagramService) ListPosts(ctx context.Context) ([]model.InstagramPost, error) {
	return s.postRepo.ListAll(ctx)
}

func (s *InstagramService) DeletePost(ctx context.Context, id int64) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.embed.ClearCache(ctx, post.PostURL)
	s.store.Delete(ctx, cache.PostDataKey(id))
	return nil
}

// DisplaySection assembles the public Instagram block: the singleton
// config plus active posts in display order, each prepared per the
// rendering selection policy. A post with stored media is rendered from
// its own media plus synthesized fallback chrome and never triggers a
// remote fetch; only posts without media get a best-effort live embed.
func (s *InstagramService) DisplaySection(ctx context.Context) (*InstagramSection, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err == model.ErrConfigNotFound {
		cfg = DefaultInstagramConfig()
	} else if err != nil {
		return nil, fmt.Errorf("get instagram config: %w", err)
	}

	if !cfg.IsActive {
		return &InstagramSection{IsActive: false, Config: cfg, Posts: []DisplayPost{}}, nil
	}

	posts, err := s.postRepo.ListActive(ctx, cfg.PostsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list active posts: %w", err)
	}

	display := make([]DisplayPost, 0, len(posts))
	for _, post := range posts {
		display = append(display, s.prepareDisplayPost(ctx, post, cfg))
	}

	return &InstagramSection{IsActive: true, Config: cfg, Posts: display}, nil
}

// prepareDisplayPost builds one display payload, with the whole result
// cached per post so repeated homepage renders skip the synthesis and
// embed lookups. Entries are invalidated on post edit and delete.
func (s *InstagramService) prepareDisplayPost(ctx context.Context, post model.InstagramPost, cfg *model.InstagramConfig) DisplayPost {
	key := cache.PostDataKey(post.ID)
	if data, ok := s.store.Get(ctx, key); ok {
		var cached DisplayPost
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	var embed instagram.EmbedResult

	media := post.AllMediaURLs()
	if len(media) > 0 {
		// Curated media present: render from stored media, never fetch.
		embed = instagram.EmbedResult{
			Success:     false,
			UseFallback: true,
			OriginalURL: post.PostURL,
			Fallback:    s.embed.SynthesizeFallback(post.PostURL, media),
		}
	} else {
		embed = s.embed.GetEmbedData(ctx, post.PostURL, true)
	}

	dp := DisplayPost{Post: post, Embed: embed}

	maxLen := cfg.MaxCaptionLength
	if maxLen <= 0 {
		maxLen = defaultCaptionLength
	}
	if utf8.RuneCountInString(post.Caption) > maxLen {
		dp.NeedsReadMore = true
		dp.TruncatedCaption = truncateAtWord(post.Caption, maxLen)
	}

	// A failed live embed is not snapshotted: its retry window is the
	// embed cache's short error TTL, and a 2h snapshot would keep
	// serving the failure long after that. Curated-media fallbacks are
	// the intended rendering and keep the full TTL.
	if embed.Success || len(media) > 0 {
		if data, err := json.Marshal(dp); err == nil {
			s.store.Set(ctx, key, data, cache.PostDataTTL)
		}
	}
	return dp
}

// truncateAtWord cuts s to at most max bytes, backing up to the last
// space so words stay whole.
func truncateAtWord(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// DefaultInstagramConfig mirrors the bootstrap defaults.
func DefaultInstagramConfig() *model.InstagramConfig {
	return &model.InstagramConfig{
		PostsPerPage:     6,
		ShowCaptions:     true,
		MaxCaptionLength: 2000,
		SectionTitleSq:   "Postimet tona në Instagram",
		SectionTitleEn:   "Our Instagram Posts",
		SectionTitleDe:   "Unsere Instagram-Posts",
		IsActive:         true,
	}
}

// GetConfig returns the singleton config.
func (s *InstagramService) GetConfig(ctx context.Context) (*model.InstagramConfig, error) {
	return s.configRepo.Get(ctx)
}

// CreateConfig bootstraps the singleton config row. A second creation
// attempt fails with model.ErrConfigExists.
func (s *InstagramService) CreateConfig(ctx context.Context) (*model.InstagramConfig, error) {
	cfg := DefaultInstagramConfig()
	if err := s.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *InstagramService) UpdateConfig(ctx context.Context, req model.UpdateInstagramConfigRequest) (*model.InstagramConfig, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	cfg.PostsPerPage = req.PostsPerPage
	cfg.ShowCaptions = req.ShowCaptions
	cfg.MaxCaptionLength = req.MaxCaptionLength
	cfg.SectionTitleSq = req.SectionTitleSq
	cfg.SectionTitleEn = req.SectionTitleEn
	cfg.SectionTitleDe = req.SectionTitleDe
	cfg.IsActive = req.IsActive

	if err := s.configRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	// Display snapshots bake in the caption limit, so they go stale the
	// moment the config changes.
	if posts, err := s.postRepo.ListAll(ctx); err == nil {
		keys := make([]string, 0, len(posts))
		for _, p := range posts {
			keys = append(keys, cache.PostDataKey(p.ID))
		}
		if len(keys) > 0 {
			s.store.Delete(ctx, keys...)
		}
	}
	return cfg, nil
}

// DeleteConfig always refuses: the config is never deleted once
// created.
func (s *InstagramService) DeleteConfig(ctx context.Context) error {
	return model.ErrConfigDeleteForbidden
}

// ValidateURL is the diagnostics validation path: format check first,
// then the embed service's best-effort content validation.
func (s *InstagramService) ValidateURL(ctx context.Context, postURL string) (bool, string) {
	if !instagram.IsValidPostURL(postURL) {
		return false, "Invalid Instagram URL format"
	}
	return s.embed.ValidatePostContent(ctx, postURL, "")
}

// EmbedDiagnostics returns the orchestrator's result verbatim with the
// cache bypassed. Used by operators, not for end-user display.
func (s *InstagramService) EmbedDiagnostics(ctx context.Context, postURL string) instagram.EmbedResult {
	return s.embed.GetEmbedData(ctx, postURL, false)
}

// RefreshPost invalidates a post's cache entries and forces one live
// fetch.
func (s *InstagramService) RefreshPost(ctx context.Context, postURL string) instagram.EmbedResult {
	s.embed.ClearCache(ctx, postURL)
	return s.embed.GetEmbedData(ctx, postURL, false)
}
