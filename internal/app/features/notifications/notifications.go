// internal/app/features/notifications/notifications.go
package notifications

import (
	"context"
	"errors"
	"net/http"
	"time"

	notificationstore "github.com/dalemusser/campushub/internal/app/store/notifications"
	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList returns the caller's notifications, newest first. Pass the
// returned nextCursor as ?before= for the next page.
//
// Route: GET /api/notifications
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var before *paging.TimeCursor
	if raw := query.Get(r, "before"); raw != "" {
		c, ok := paging.DecodeTimeCursor(raw)
		if !ok {
			respond.Error(w, r, h.Log, apperr.Client("invalid cursor"))
			return
		}
		before = &c
	}
	size := paging.ParseLimit(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "notifications list")
	defer cancel()

	rows, err := notificationstore.New(h.DB).ListByRecipient(ctx, uid, before, paging.LimitPlusOne(size))
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load notifications", err))
		return
	}
	hasMore := paging.TrimPage(&rows, size)

	views, err := h.resolve(ctx, rows)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load notifications", err))
		return
	}

	respond.OK(w, listResult{
		Notifications: views,
		NextCursor: paging.NextCursor(rows, hasMore,
			func(n models.Notification) time.Time { return n.CreatedAt },
			func(n models.Notification) primitive.ObjectID { return n.ID }),
	})
}

// resolve batches sender and organization lookups for rows.
func (h *Handler) resolve(ctx context.Context, rows []models.Notification) ([]noteView, error) {
	var senderIDs, orgIDs []primitive.ObjectID
	for _, n := range rows {
		if n.SenderID != nil {
			senderIDs = append(senderIDs, *n.SenderID)
		}
		if n.OrganizationID != nil {
			orgIDs = append(orgIDs, *n.OrganizationID)
		}
	}
	senders, err := userstore.New(h.DB).Summaries(ctx, senderIDs, false)
	if err != nil {
		return nil, err
	}
	orgs, err := organizationstore.New(h.DB).Summaries(ctx, orgIDs)
	if err != nil {
		return nil, err
	}

	out := make([]noteView, 0, len(rows))
	for _, n := range rows {
		v := noteView{
			ID:        n.ID,
			Type:      n.Type,
			Reference: n.Ref,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.SenderID != nil {
			if s, ok := senders[*n.SenderID]; ok {
				v.Sender = &s
			}
		}
		if n.OrganizationID != nil {
			if o, ok := orgs[*n.OrganizationID]; ok {
				v.Organization = &o
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// ServeUnreadCount returns how many notifications the caller has not read.
//
// Route: GET /api/notifications/unread-count
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "notifications unread")
	defer cancel()

	n, err := notificationstore.New(h.DB).CountUnread(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to count notifications", err))
		return
	}
	respond.OK(w, countResult{Unread: n})
}

// HandleRead marks one of the caller's notifications as read.
//
// Route: PATCH /api/notifications/{id}/read
func (h *Handler) HandleRead(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "notification")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "notification read")
	defer cancel()

	err = notificationstore.New(h.DB).MarkRead(ctx, id, uid)
	if errors.Is(err, notificationstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Notification not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update notification", err))
		return
	}
	respond.OK(w, map[string]string{"id": id.Hex()})
}

// HandleReadAll marks every unread notification of the caller as read.
//
// Route: PATCH /api/notifications/read-all
func (h *Handler) HandleReadAll(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "notifications read all")
	defer cancel()

	n, err := notificationstore.New(h.DB).MarkAllRead(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update notifications", err))
		return
	}
	respond.OK(w, readAllResult{Updated: n})
}
