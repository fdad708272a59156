// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Organization routes under the base path
// (typically "/api/organizations" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/managed", h.ServeManaged)
	r.Post("/{id}/follow", h.HandleToggleFollow)

	// Head or moderator; checked per organization in the handler.
	r.Patch("/{id}/picture", h.HandlePicture)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleModerator))

		pr.Get("/all", h.ServeAll)
		pr.Post("/", h.HandleCreate)
		pr.Post("/seed", h.HandleSeed)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
