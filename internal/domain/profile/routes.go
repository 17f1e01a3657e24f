package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns profile router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpsertMe)
	r.Get("/me/preferences", h.GetMyPreferences)
	r.Put("/me/preferences", h.UpsertMyPreferences)
	r.Get("/{id}", h.GetByID)

	return r
}
