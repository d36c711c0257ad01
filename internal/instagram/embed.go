package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tumas_backend/internal/cache"
	"tumas_backend/internal/config"
)

// ErrorKind names the degraded paths of the embed service so callers
// can tell them apart without parsing message text.
type ErrorKind string

const (
	ErrKindNone         ErrorKind = ""
	ErrKindFormat       ErrorKind = "format"
	ErrKindConfigAbsent ErrorKind = "config_absent"
	ErrKindAuth         ErrorKind = "auth"
	ErrKindAPI          ErrorKind = "api"
	ErrKindNetwork      ErrorKind = "network"
	ErrKindParse        ErrorKind = "parse"
)

// FallbackData is a self-contained renderable substitute shown when
// live embedding fails or is unavailable. It never depends on remote
// resources beyond the link back to the original post.
type FallbackData struct {
	HTML         string `json:"html"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
	IsFallback   bool   `json:"is_fallback"`
	IsCarousel   bool   `json:"is_carousel"`
	MediaCount   int    `json:"media_count"`
	OriginalURL  string `json:"original_url"`
}

// EmbedResult is the outcome of an embed lookup: either real oEmbed
// data (Success) or a degraded result carrying a fallback payload.
type EmbedResult struct {
	Success      bool      `json:"success"`
	HTML         string    `json:"html,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	AuthorName   string    `json:"author_name,omitempty"`
	AuthorURL    string    `json:"author_url,omitempty"`
	ProviderName string    `json:"provider_name,omitempty"`
	ProviderURL  string    `json:"provider_url,omitempty"`
	Title        string    `json:"title,omitempty"`
	CachedAt     string    `json:"cached_at,omitempty"`
	OriginalURL  string    `json:"original_url"`
	MediaType    string    `json:"media_type,omitempty"`
	IsCarousel   bool      `json:"is_carousel,omitempty"`
	Error        string    `json:"error,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	UseFallback  bool      `json:"use_fallback,omitempty"`
	AuthError    bool      `json:"auth_error,omitempty"`

	Fallback *FallbackData `json:"fallback_data,omitempty"`
}

// ValidationResult is a cached URL validation outcome.
type ValidationResult struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message"`
	ValidatedAt  string `json:"validated_at"`
}

const (
	requestTimeout  = 10 * time.Second
	embedMaxWidth   = 540
	fallbackWidth   = 540
	fallbackHeight  = 300
	embedUserAgent  = "Mozilla/5.0 (compatible; InstagramEmbedBot/1.0)"
	defaultProvider = "Instagram"
	providerSiteURL = "https://www.instagram.com"
)

// EmbedService fetches Instagram oEmbed data with caching and fallback
// synthesis. It is safe to use with no access token configured: every
// lookup then short-circuits to a locally synthesized fallback with
// zero network calls.
type EmbedService struct {
	httpClient  *http.Client
	store       cache.Store
	accessToken string
	oembedURL   string
}

func NewEmbedService(cfg *config.Config, store cache.Store) *EmbedService {
	return &EmbedService{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		store:       store,
		accessToken: cfg.InstagramAccessToken,
		oembedURL:   cfg.InstagramOEmbedURL,
	}
}

// GetEmbedData returns embed data for postURL: cache first, then one
// remote attempt, then a synthesized fallback on any failure. Results
// are cached regardless of outcome (24h success, 5m failure) so that
// repeated failed lookups are rate-limited; invalid-format results are
// input errors and are never cached.
func (s *EmbedService) GetEmbedData(ctx context.Context, postURL string, useCache bool) EmbedResult {
	if useCache {
		if cached, ok := s.getCached(ctx, postURL); ok {
			return cached
		}
	}

	if !IsValidPostURL(postURL) {
		return EmbedResult{
			Success:     false,
			Error:       "Invalid Instagram URL format",
			ErrorKind:   ErrKindFormat,
			OriginalURL: postURL,
			Fallback:    s.SynthesizeFallback(postURL, nil),
		}
	}

	result := s.fetchOEmbed(ctx, postURL)
	s.cacheResult(ctx, postURL, result)

	if result.Success {
		log.Printf("[EmbedService] Fetched and cached embed data for %s", postURL)
	} else {
		log.Printf("[EmbedService] Degraded embed result for %s: kind=%s err=%s", postURL, result.ErrorKind, result.Error)
	}
	return result
}

// fetchOEmbed performs the single bounded remote attempt and classifies
// the response.
func (s *EmbedService) fetchOEmbed(ctx context.Context, postURL string) EmbedResult {
	// No credential configured: a supported mode, not an error. Skip
	// network I/O entirely and always produce a renderable result.
	if s.accessToken == "" {
		return EmbedResult{
			Success:     false,
			Error:       "Instagram API access not configured - using fallback display",
			ErrorKind:   ErrKindConfigAbsent,
			UseFallback: true,
			OriginalURL: postURL,
			Fallback:    s.SynthesizeFallback(postURL, nil),
		}
	}

	params := url.Values{}
	params.Set("url", postURL)
	params.Set("omitscript", "true")
	params.Set("hidecaption", "false")
	params.Set("maxwidth", strconv.Itoa(embedMaxWidth))
	params.Set("access_token", s.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.oembedURL+"?"+params.Encode(), nil)
	if err != nil {
		return s.failureResult(postURL, ErrKindNetwork, fmt.Sprintf("Request failed: %v", err))
	}
	req.Header.Set("User-Agent", embedUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection errors are terminal for this call;
		// the short error TTL bounds how soon a retry happens.
		return s.failureResult(postURL, ErrKindNetwork, fmt.Sprintf("Request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.failureResult(postURL, ErrKindNetwork, fmt.Sprintf("Request failed: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var data oembedResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return s.failureResult(postURL, ErrKindParse, fmt.Sprintf("Invalid JSON response: %v", err))
		}
		return s.successResult(postURL, data)

	case resp.StatusCode == http.StatusForbidden:
		msg := providerErrorMessage(body, "Authentication failed")
		result := s.failureResult(postURL, ErrKindAuth, fmt.Sprintf("Instagram API authentication required: %s", msg))
		result.AuthError = true
		return result

	default:
		msg := providerErrorMessage(body, strings.TrimSpace(string(body)))
		return s.failureResult(postURL, ErrKindAPI, fmt.Sprintf("API returned status %d: %s", resp.StatusCode, msg))
	}
}

type oembedResponse struct {
	HTML         string `json:"html"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	Title        string `json:"title"`
}

func (s *EmbedService) successResult(postURL string, data oembedResponse) EmbedResult {
	providerName := data.ProviderName
	if providerName == "" {
		providerName = defaultProvider
	}
	providerURL := data.ProviderURL
	if providerURL == "" {
		providerURL = providerSiteURL
	}

	return EmbedResult{
		Success:      true,
		HTML:         data.HTML,
		Width:        data.Width,
		Height:       data.Height,
		ThumbnailURL: data.ThumbnailURL,
		AuthorName:   data.AuthorName,
		AuthorURL:    data.AuthorURL,
		ProviderName: providerName,
		ProviderURL:  providerURL,
		Title:        data.Title,
		CachedAt:     time.Now().Format(time.RFC3339),
		OriginalURL:  postURL,
		MediaType:    detectMediaType(data.HTML),
		IsCarousel:   detectCarousel(data.HTML),
	}
}

func (s *EmbedService) failureResult(postURL string, kind ErrorKind, message string) EmbedResult {
	return EmbedResult{
		Success:     false,
		Error:       message,
		ErrorKind:   kind,
		UseFallback: true,
		OriginalURL: postURL,
		Fallback:    s.SynthesizeFallback(postURL, nil),
	}
}

// providerErrorMessage digs the message out of the provider's error
// envelope, falling back to the supplied default.
func providerErrorMessage(body []byte, fallback string) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return fallback
}

// detectMediaType sniffs the embed HTML for a media type. Best-effort
// hint only; never used to gate logic.
func detectMediaType(html string) string {
	if html == "" {
		return "unknown"
	}
	lower := strings.ToLower(html)
	switch {
	case strings.Contains(lower, "video"):
		return "video"
	case strings.Contains(lower, "carousel") || strings.Contains(lower, "multiple"):
		return "carousel"
	default:
		return "image"
	}
}

var carouselIndicators = []string{"carousel", "multiple", "slide", "swipe"}

// detectCarousel sniffs the embed HTML for carousel indicators.
// Best-effort hint only.
func detectCarousel(html string) bool {
	if html == "" {
		return false
	}
	lower := strings.ToLower(html)
	for _, indicator := range carouselIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// SynthesizeFallback produces the dependency-free fallback card for a
// post. The thumbnail is the first supplied media URL when any exist;
// this is the only payload ever shown for manually curated posts.
func (s *EmbedService) SynthesizeFallback(postURL string, mediaURLs []string) *FallbackData {
	isCarousel := len(mediaURLs) > 1
	icon, text := "📷", "Instagram Post"
	if isCarousel {
		icon, text = "🎠", "Instagram Carousel"
	}

	thumbnail := ""
	mediaCount := 1
	if len(mediaURLs) > 0 {
		thumbnail = mediaURLs[0]
		mediaCount = len(mediaURLs)
	}

	html := fmt.Sprintf(`<div class="instagram-fallback">
    <div class="instagram-fallback-content">
        <div class="instagram-fallback-icon">%s</div>
        <p class="instagram-fallback-text">%s</p>
        <a href="%s" target="_blank" rel="noopener noreferrer" class="instagram-fallback-link">
            View on Instagram
        </a>
    </div>
</div>`, icon, text, postURL)

	return &FallbackData{
		HTML:         html,
		Width:        fallbackWidth,
		Height:       fallbackHeight,
		ThumbnailURL: thumbnail,
		AuthorName:   "Instagram User",
		IsFallback:   true,
		IsCarousel:   isCarousel,
		MediaCount:   mediaCount,
		OriginalURL:  postURL,
	}
}

// GetEmbedHTMLSafe returns HTML that is always renderable: real embed
// HTML on success, the fallback card otherwise.
func (s *EmbedService) GetEmbedHTMLSafe(ctx context.Context, postURL string) string {
	result := s.GetEmbedData(ctx, postURL, true)
	if result.Success && result.HTML != "" {
		return result.HTML
	}
	if result.Fallback != nil {
		return result.Fallback.HTML
	}
	return s.SynthesizeFallback(postURL, nil).HTML
}

// ValidatePostContent validates a post URL (and optionally a media URL)
// for the admin form. A live fetch is attempted as a best-effort
// existence check, but fetch failures never fail the validation - the
// post might still be valid. Results are cached for 30 minutes.
func (s *EmbedService) ValidatePostContent(ctx context.Context, postURL, mediaURL string) (bool, string) {
	if !IsValidPostURL(postURL) {
		return false, "Invalid Instagram URL format. Please use a valid Instagram post, reel, or IGTV URL."
	}

	if mediaURL != "" && !IsValidMediaURL(mediaURL) {
		return false, "Invalid media URL format. Please provide a direct link to an image or video."
	}

	if cached, ok := s.getCachedValidation(ctx, postURL); ok {
		return cached.IsValid, cached.ErrorMessage
	}

	result := s.GetEmbedData(ctx, postURL, false)
	if !result.Success && result.ErrorKind != ErrKindConfigAbsent {
		log.Printf("[EmbedService] Could not verify Instagram post %s: %s", postURL, result.Error)
	}

	s.cacheValidation(ctx, postURL, ValidationResult{
		IsValid:     true,
		ValidatedAt: time.Now().Format(time.RFC3339),
	})
	return true, ""
}

// ClearCache deletes the embed and validation entries for a post URL so
// the next lookup is forced live.
func (s *EmbedService) ClearCache(ctx context.Context, postURL string) {
	s.store.Delete(ctx, cache.EmbedKey(postURL), cache.ValidationKey(postURL))
	log.Printf("[EmbedService] Cleared cache for Instagram post: %s", postURL)
}

func (s *EmbedService) getCached(ctx context.Context, postURL string) (EmbedResult, bool) {
	data, ok := s.store.Get(ctx, cache.EmbedKey(postURL))
	if !ok {
		return EmbedResult{}, false
	}
	var result EmbedResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("[EmbedService] Corrupt cache entry treated as miss: url=%s err=%v", postURL, err)
		return EmbedResult{}, false
	}
	return result, true
}

func (s *EmbedService) cacheResult(ctx context.Context, postURL string, result EmbedResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("[EmbedService] Failed to marshal embed result: url=%s err=%v", postURL, err)
		return
	}
	ttl := cache.EmbedTTL
	if !result.Success {
		ttl = cache.EmbedErrorTTL
	}
	s.store.Set(ctx, cache.EmbedKey(postURL), data, ttl)
}

func (s *EmbedService) getCachedValidation(ctx context.Context, postURL string) (ValidationResult, bool) {
	data, ok := s.store.Get(ctx, cache.ValidationKey(postURL))
	if !ok {
		return ValidationResult{}, false
	}
	var result ValidationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return ValidationResult{}, false
	}
	return result, true
}

func (s *EmbedService) cacheValidation(ctx context.Context, postURL string, result ValidationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	s.store.Set(ctx, cache.ValidationKey(postURL), data, cache.ValidationTTL)
}
