// internal/app/features/reportitems/routes.go
package reportitems

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts lost-and-found routes (typically under "/api/reports").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeOne)
	r.Delete("/{id}", h.HandleDelete)
	r.Patch("/{id}/status", h.HandleStatus)
	r.Post("/{id}/witness", h.HandleWitness)

	return r
}
