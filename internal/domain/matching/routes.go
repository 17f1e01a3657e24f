package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns matching router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/feed", h.GetFeed)
	r.Post("/swipes", h.Swipe)
	r.Get("/matches", h.ListMatches)
	r.Delete("/matches/{id}", h.Unmatch)
	r.Get("/likes", h.ListLikers)
	r.Get("/likes/count", h.CountLikes)

	return r
}
