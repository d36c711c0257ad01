package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tumas_backend/internal/httputil"
	"tumas_backend/internal/instagram"
	"tumas_backend/internal/model"
	"tumas_backend/internal/service"
)

type InstagramHandler struct {
	instagramService *service.InstagramService
	warmer           *instagram.Warmer
}

func NewInstagramHandler(instagramService *service.InstagramService, warmer *instagram.Warmer) *InstagramHandler {
	return &InstagramHandler{
		instagramService: instagramService,
		warmer:           warmer,
	}
}

// GetSection handles GET /api/instagram/posts
// Returns the public Instagram block: config plus active posts prepared
// for display.
func (h *InstagramHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.instagramService.DisplaySection(r.Context())
	if err != nil {
		log.Printf("[ERROR] Instagram section handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load Instagram posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, section)
}

// ValidateURL handles POST /api/instagram/validate
// Diagnostics endpoint: checks URL format and, best-effort, whether the
// post is reachable. Always returns 200 with the validation verdict.
func (h *InstagramHandler) ValidateURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.URL == "" {
		httputil.WriteBadRequest(w, "URL is required")
		return
	}

	valid, message := h.instagramService.ValidateURL(r.Context(), req.URL)
	httputil.WriteJSON(w, http.StatusOK, instagram.ValidationResult{
		IsValid:      valid,
		ErrorMessage: message,
		ValidatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// ListPosts handles GET /admin/instagram/posts
// Returns every curated post, active or not, for the admin table.
func (h *InstagramHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.instagramService.ListPosts(r.Context())
	if err != nil {
		log.Printf("[ERROR] List instagram posts handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /admin/instagram/posts/:id
func (h *InstagramHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.instagramService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrInstagramPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get instagram post handler: post=%d err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /admin/instagram/posts
// Full admin create: URL validation, uniqueness, curator parse of the
// free-text media field.
func (h *InstagramHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInstagramPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.instagramService.CreatePost(r.Context(), req)
	if err != nil {
		h.writePostError(w, err, "Create instagram post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /admin/instagram/posts/:id
func (h *InstagramHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateInstagramPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.instagramService.UpdatePost(r.Context(), id, req)
	if err != nil {
		h.writePostError(w, err, "Update instagram post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /admin/instagram/posts/:id
func (h *InstagramHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.instagramService.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrInstagramPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Delete instagram post handler: post=%d err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// QuickAdd handles POST /admin/instagram/quick-add
// Creates a post from just a URL and optional caption.
func (h *InstagramHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	var req model.QuickAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.instagramService.QuickAdd(r.Context(), req)
	if err != nil {
		h.writePostError(w, err, "Quick-add instagram post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// EmbedTest handles GET /admin/instagram/embed-test?url=
// Returns the orchestrator's result verbatim with the cache bypassed.
func (h *InstagramHandler) EmbedTest(w http.ResponseWriter, r *http.Request) {
	postURL := r.URL.Query().Get("url")
	if postURL == "" {
		httputil.WriteBadRequest(w, "url query parameter is required")
		return
	}

	result := h.instagramService.EmbedDiagnostics(r.Context(), postURL)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// RefreshPost handles POST /admin/instagram/refresh
// Clears cached entries for a URL and forces one live fetch.
func (h *InstagramHandler) RefreshPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.URL == "" {
		httputil.WriteBadRequest(w, "URL is required")
		return
	}

	result := h.instagramService.RefreshPost(r.Context(), req.URL)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// WarmCache handles POST /admin/instagram/warm
// Pre-populates the embed cache for every active post.
func (h *InstagramHandler) WarmCache(w http.ResponseWriter, r *http.Request) {
	result, err := h.warmer.WarmActive(r.Context())
	if err != nil {
		log.Printf("[ERROR] Warm cache handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to warm cache")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetConfig handles GET /admin/instagram/config
func (h *InstagramHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.instagramService.GetConfig(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrConfigNotFound) {
			httputil.WriteNotFound(w, "Instagram config not created yet")
			return
		}
		log.Printf("[ERROR] Get instagram config handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get config")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cfg)
}

// CreateConfig handles POST /admin/instagram/config
// Bootstraps the singleton config with defaults. A second attempt
// returns 409.
func (h *InstagramHandler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.instagramService.CreateConfig(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrConfigExists) {
			httputil.WriteConflict(w, "Instagram config already exists")
			return
		}
		log.Printf("[ERROR] Create instagram config handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to create config")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, cfg)
}

// UpdateConfig handles PUT /admin/instagram/config
func (h *InstagramHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateInstagramConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	cfg, err := h.instagramService.UpdateConfig(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrConfigNotFound) {
			httputil.WriteNotFound(w, "Instagram config not created yet")
			return
		}
		log.Printf("[ERROR] Update instagram config handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to update config")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cfg)
}

// writePostError maps the post domain errors shared by the create,
// update and quick-add paths.
func (h *InstagramHandler) writePostError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, model.ErrInstagramPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrInvalidPostURL):
		httputil.WriteBadRequest(w, "Invalid Instagram post URL")
	case errors.Is(err, model.ErrInvalidPostType):
		httputil.WriteBadRequest(w, "Invalid post type")
	case errors.Is(err, model.ErrDuplicatePostURL):
		httputil.WriteConflict(w, "A post with this URL already exists")
	case errors.Is(err, model.ErrNoValidMediaURLs):
		httputil.WriteBadRequest(w, "No valid media URLs found in the provided text")
	default:
		log.Printf("[ERROR] %s handler: err=%v", op, err)
		httputil.WriteInternalError(w, "Failed to save post")
	}
}
