// internal/app/features/events/subscription.go
package events

import (
	"context"
	"net/http"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	subscriptionstore "github.com/dalemusser/campushub/internal/app/store/subscriptions"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// subscriptionTarget resolves the caller and an existing event id.
func (h *Handler) subscriptionTarget(ctx context.Context, r *http.Request) (uid, eventID primitive.ObjectID, err error) {
	uid, err = authz.UserID(r)
	if err != nil {
		return
	}
	eventID, err = authz.ParseID(chi.URLParam(r, "id"), "event")
	if err != nil {
		return
	}
	exists, err := eventstore.New(h.DB).Exists(ctx, eventID)
	if err != nil {
		err = apperr.Server("failed to load event", err)
		return
	}
	if !exists {
		err = apperr.NotFound("Event not found")
	}
	return
}

// HandleToggleSubscription subscribes the caller to the event's reminder,
// or unsubscribes them if already subscribed.
//
// Route: POST /api/events/{id}/subscription
func (h *Handler) HandleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event subscription toggle")
	defer cancel()

	uid, eventID, err := h.subscriptionTarget(ctx, r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	on, err := subscriptionstore.New(h.DB).Toggle(ctx, eventID, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update subscription", err))
		return
	}
	respond.OK(w, subscriptionResult{IsSubscribed: on})
}

// ServeSubscription reports whether the caller is subscribed.
//
// Route: GET /api/events/{id}/subscription
func (h *Handler) ServeSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event subscription status")
	defer cancel()

	uid, eventID, err := h.subscriptionTarget(ctx, r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	on, err := subscriptionstore.New(h.DB).Exists(ctx, eventID, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load subscription", err))
		return
	}
	respond.OK(w, subscriptionResult{IsSubscribed: on})
}
