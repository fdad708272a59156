// internal/app/features/searchhistory/routes.go
package searchhistory

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts search history routes (typically under "/api/search-history").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeRecent)
	r.Delete("/", h.HandleClear)
	r.Delete("/{id}", h.HandleRemove)

	return r
}
