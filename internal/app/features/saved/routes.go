// internal/app/features/saved/routes.go
package saved

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts bookmark routes (typically under "/api/saved").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/toggle", h.HandleToggle)
	r.Get("/status", h.ServeStatus)

	return r
}
