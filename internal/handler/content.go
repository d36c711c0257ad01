package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tumas_backend/internal/httputil"
	"tumas_backend/internal/model"
	"tumas_backend/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// GetPage handles GET /api/page
// Returns section content, team, events and the Instagram block in one
// payload.
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.GetPage(r.Context())
	if err != nil {
		log.Printf("[ERROR] Get page handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load page content")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// SubmitContact handles POST /api/contact
func (h *ContentHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	msg, err := h.contentService.SubmitContact(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrMissingRequired) {
			httputil.WriteBadRequest(w, "Name, email and message are required")
			return
		}
		log.Printf("[ERROR] Submit contact handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to submit message")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, msg)
}

// UpsertSection handles PUT /admin/content/:section
func (h *ContentHandler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	var req model.UpsertSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.contentService.UpsertSection(r.Context(), section, req)
	if err != nil {
		if errors.Is(err, model.ErrUnknownSection) {
			httputil.WriteNotFound(w, "Unknown content section")
			return
		}
		log.Printf("[ERROR] Upsert section handler: section=%s err=%v", section, err)
		httputil.WriteInternalError(w, "Failed to save section")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, updated)
}

// ListContactMessages handles GET /admin/contact-messages
func (h *ContentHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	messages, err := h.contentService.ListContactMessages(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] List contact messages handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list messages")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messages)
}
