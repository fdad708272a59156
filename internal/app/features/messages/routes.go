// internal/app/features/messages/routes.go
package messages

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts messaging routes (typically under "/api/messages").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleSend)
	r.Get("/partners", h.ServePartners)
	r.Get("/{userID}", h.ServeConversation)
	r.Patch("/{userID}/read", h.HandleMarkRead)

	return r
}
