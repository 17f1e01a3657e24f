package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns listing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.Search)
	r.Post("/", h.Create)
	r.Get("/me", h.ListMine)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.ChangeStatus)

	return r
}
