package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/imaging"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

// Handler handles photo HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates photo handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /photos (multipart form, field "photo")
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxFileSize+1024)

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	userID := middleware.GetUserID(r.Context())
	photo, err := h.service.Upload(r.Context(), userID, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			response.Error(w, http.StatusUnprocessableEntity, "UNSUPPORTED_TYPE", "Only jpg, png and webp images are accepted")
		case errors.Is(err, ErrFileTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the maximum allowed size")
		case errors.Is(err, ErrPhotoLimitReached):
			response.Error(w, http.StatusUnprocessableEntity, "PHOTO_LIMIT_REACHED", "Photo limit reached")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, PhotoResponseFromEntity(photo))
}

// ListMine handles GET /photos
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.writeList(w, r, userID)
}

// ListByUser handles GET /photos/user/{id}
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}
	h.writeList(w, r, userID)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	photos, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = PhotoResponseFromEntity(p)
	}
	response.OK(w, items)
}

// Delete handles DELETE /photos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), userID, photoID); err != nil {
		h.writePhotoError(w, err)
		return
	}

	response.NoContent(w)
}

// SetAvatar handles PATCH /photos/{id}/avatar
func (h *Handler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	photo, err := h.service.SetAvatar(r.Context(), userID, photoID)
	if err != nil {
		h.writePhotoError(w, err)
		return
	}

	response.OK(w, PhotoResponseFromEntity(photo))
}

// Reorder handles PATCH /photos/reorder
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Reorder(r.Context(), userID, req.PhotoIDs); err != nil {
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) writePhotoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPhotoNotFound):
		response.NotFound(w, "Photo not found")
	case errors.Is(err, ErrNotPhotoOwner):
		response.Forbidden(w, "You can only manage your own photos")
	default:
		response.InternalError(w)
	}
}
