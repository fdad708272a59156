// internal/app/features/feed/routes.go
package feed

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the feed routes (typically under "/api/feed").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeHome)
	r.Get("/users/{userID}", h.ServeProfile)
	r.Get("/saved", h.ServeSaved)
	r.Get("/search", h.ServeSearch)

	return r
}
