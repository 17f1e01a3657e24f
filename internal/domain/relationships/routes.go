package relationships

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns relationships router, mounted under /users
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/me/blocked", h.ListBlocked)
	r.Post("/{id}/block", h.BlockUser)
	r.Delete("/{id}/block", h.UnblockUser)

	return r
}
