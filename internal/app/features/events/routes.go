// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts event routes (typically under "/api/events").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeOne)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	// Reminder subscription for the caller
	r.Post("/{id}/subscription", h.HandleToggleSubscription)
	r.Get("/{id}/subscription", h.ServeSubscription)

	return r
}
