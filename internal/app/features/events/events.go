// internal/app/features/events/events.go
package events

import (
	"errors"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/store/cascade"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/store/queries/feedqueries"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/orgutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate publishes an event for an organization the caller heads and
// announces it to the organization's followers in the background.
//
// Route: POST /api/events
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in createInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	orgID, _ := authz.ParseID(in.OrganizationID, "organization")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event create")
	defer cancel()

	org, err := orgutil.RequireHead(ctx, h.DB, orgID, uid)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ev, err := eventstore.New(h.DB).Create(ctx, models.EventPost{
		EventName:      htmlsanitize.PlainText(in.EventName),
		Location:       htmlsanitize.PlainText(in.Location),
		Course:         in.Course,
		OpenTo:         htmlsanitize.PlainText(in.OpenTo),
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		Image:          in.Image,
		PostedBy:       uid,
		OrganizationID: org.ID,
	})
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to create event", err))
		return
	}

	h.Engine.Broadcast(fanout.OrgBroadcast{
		ActorID: uid,
		OrgID:   org.ID,
		Ref:     models.Ref(models.KindEvent, ev.ID),
		Message: fanout.EventPostMessage(ev.EventName),
	})

	respond.Created(w, ev)
}

// ServeOne returns one event with identities resolved.
//
// Route: GET /api/events/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, err := authz.ParseID(chi.URLParam(r, "id"), "event")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event get")
	defer cancel()

	item, err := feedqueries.One(ctx, h.DB, models.Ref(models.KindEvent, id))
	if errors.Is(err, feedqueries.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Event not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load event", err))
		return
	}
	respond.OK(w, item)
}

// loadOwned loads the event and confirms the caller heads its organization.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (models.EventPost, bool) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.EventPost{}, false
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "event")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.EventPost{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event load")
	defer cancel()

	ev, err := eventstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Event not found"))
		return ev, false
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load event", err))
		return ev, false
	}
	if _, err := orgutil.RequireHead(ctx, h.DB, ev.OrganizationID, uid); err != nil {
		respond.Error(w, r, h.Log, err)
		return ev, false
	}
	return ev, true
}

// HandleUpdate edits an event. The resulting end date may not precede the
// resulting start date.
//
// Route: PATCH /api/events/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	ev, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	start, end := ev.StartDate, ev.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if end.Before(start) {
		respond.Error(w, r, h.Log, apperr.Client("endDate must not be before startDate"))
		return
	}

	u := eventstore.Update{
		Course:    in.Course,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Image:     in.Image,
	}
	u.EventName = plain(in.EventName)
	u.Location = plain(in.Location)
	u.OpenTo = plain(in.OpenTo)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event update")
	defer cancel()

	updated, err := eventstore.New(h.DB).UpdateFields(ctx, ev.ID, u)
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Event not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update event", err))
		return
	}
	respond.OK(w, updated)
}

func plain(s *string) *string {
	if s == nil {
		return nil
	}
	v := htmlsanitize.PlainText(*s)
	return &v
}

// HandleDelete removes the event with its subscribers, notifications and
// saved items.
//
// Route: DELETE /api/events/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	uid, _ := authz.UserID(r)
	ref := models.Ref(models.KindEvent, ev.ID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event delete")
	defer cancel()

	res, err := cascade.ContentTx(ctx, h.DB, h.Log, ref)
	if err != nil {
		h.Log.Error("event delete cascade failed", zap.Error(err), zap.String("ref", ref.String()))
		respond.Error(w, r, h.Log, apperr.Server("failed to delete event", err))
		return
	}
	h.Audit.ContentDeleted(ctx, r, uid, ref.String())

	respond.OK(w, res)
}
