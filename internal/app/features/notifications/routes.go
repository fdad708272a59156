// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts inbox routes (typically under "/api/notifications").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/unread-count", h.ServeUnreadCount)
	r.Patch("/read-all", h.HandleReadAll)
	r.Patch("/{id}/read", h.HandleRead)

	return r
}
