package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns photo router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Upload)
	r.Get("/", h.ListMine)
	r.Get("/user/{id}", h.ListByUser)
	r.Patch("/reorder", h.Reorder)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/avatar", h.SetAvatar)

	return r
}
