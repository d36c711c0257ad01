package handler

import (
	"errors"
	"log"
	"net/http"

	"tumas_backend/internal/httputil"
	"tumas_backend/internal/model"
	"tumas_backend/internal/service"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// Upload handles POST /admin/media/upload
// Multipart form with an "image" file and a "kind" field: "section"
// images are width-capped for page banners, "team" images are cropped
// square for the member grid.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.mediaService == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, httputil.ErrCodeInternal, "Media storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(model.MaxUploadSizeBytes); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	if kind == "" {
		kind = "section"
	}

	var result *model.UploadResult
	switch kind {
	case "section":
		result, err = h.mediaService.UploadSectionImage(r.Context(), file, header)
	case "team":
		result, err = h.mediaService.UploadTeamImage(r.Context(), file, header)
	default:
		httputil.WriteBadRequest(w, "kind must be \"section\" or \"team\"")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds the 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type")
		default:
			log.Printf("[ERROR] Media upload handler: kind=%s err=%v", kind, err)
			httputil.WriteInternalError(w, "Failed to upload image")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
