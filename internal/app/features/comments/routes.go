// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts comment routes (typically under "/api/posts").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/{kind}/{postID}/comments", h.HandleAdd)
	r.Patch("/{kind}/{postID}/comments/{commentID}", h.HandleEdit)
	r.Delete("/{kind}/{postID}/comments/{commentID}", h.HandleDelete)

	return r
}
