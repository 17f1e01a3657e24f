package listing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/roomly/roomly-api/internal/middleware"
	"github.com/roomly/roomly-api/internal/pkg/response"
	"github.com/roomly/roomly-api/internal/pkg/validator"
)

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	l, err := h.service.Create(r.Context(), ownerID, &req)
	if err != nil {
		if errors.Is(err, ErrListingLimitReached) {
			response.Error(w, http.StatusUnprocessableEntity, "LISTING_LIMIT_REACHED", "Active listing limit reached")
			return
		}
		log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("Failed to create listing")
		response.InternalError(w)
		return
	}

	response.Created(w, FromEntity(l))
}

// Get handles GET /listings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	l, err := h.service.Get(r.Context(), viewerID, id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		log.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to load listing")
		response.InternalError(w)
		return
	}

	response.OK(w, FromEntity(l))
}

// Update handles PUT /listings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	l, err := h.service.Update(r.Context(), ownerID, id, &req)
	if err != nil {
		h.writeListingError(w, err, id)
		return
	}

	response.OK(w, FromEntity(l))
}

// ChangeStatus handles PATCH /listings/{id}/status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req ChangeStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	l, err := h.service.ChangeStatus(r.Context(), ownerID, id, Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatusChange):
			response.Error(w, http.StatusUnprocessableEntity, "INVALID_STATUS_CHANGE", "Status transition not allowed")
		case errors.Is(err, ErrListingLimitReached):
			response.Error(w, http.StatusUnprocessableEntity, "LISTING_LIMIT_REACHED", "Active listing limit reached")
		default:
			h.writeListingError(w, err, id)
		}
		return
	}

	response.OK(w, FromEntity(l))
}

// Search handles GET /listings
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	filter := &Filter{}
	q := r.URL.Query()

	if city := q.Get("city"); city != "" {
		filter.City = &city
	}
	if district := q.Get("district"); district != "" {
		filter.District = &district
	}
	if raw := q.Get("rent_min"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.RentMin = &v
		}
	}
	if raw := q.Get("rent_max"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.RentMax = &v
		}
	}

	pagination := paginationFromQuery(r)
	listings, total, err := h.service.Search(r.Context(), filter, SortBy(q.Get("sort")), pagination)
	if err != nil {
		log.Error().Err(err).Msg("Failed to search listings")
		response.InternalError(w)
		return
	}

	h.writePage(w, listings, total, pagination)
}

// ListMine handles GET /listings/me
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	pagination := paginationFromQuery(r)

	listings, total, err := h.service.ListMine(r.Context(), ownerID, pagination)
	if err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("Failed to list own listings")
		response.InternalError(w)
		return
	}

	h.writePage(w, listings, total, pagination)
}

func (h *Handler) writePage(w http.ResponseWriter, listings []*Listing, total int, pagination *Pagination) {
	items := make([]*ListingResponse, 0, len(listings))
	for _, l := range listings {
		items = append(items, FromEntity(l))
	}

	response.WithMeta(w, items, response.Meta{
		Total:   total,
		Page:    pagination.Page,
		Limit:   pagination.Limit,
		HasNext: pagination.Page*pagination.Limit < total,
	})
}

func (h *Handler) writeListingError(w http.ResponseWriter, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, "Listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "Not the listing owner")
	default:
		log.Error().Err(err).Str("listing_id", id.String()).Msg("Listing operation failed")
		response.InternalError(w)
	}
}

func paginationFromQuery(r *http.Request) *Pagination {
	p := &Pagination{Page: 1, Limit: 20}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 50 {
			p.Limit = v
		}
	}
	return p
}
