// internal/app/features/reportitems/reportitems.go
package reportitems

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/cascade"
	"github.com/dalemusser/campushub/internal/app/store/queries/feedqueries"
	reportstore "github.com/dalemusser/campushub/internal/app/store/reports"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleCreate files a lost or found report on behalf of the caller.
//
// Route: POST /api/reports
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "report create")
	defer cancel()

	rep, err := reportstore.New(h.DB).Create(ctx, models.ReportItem{
		ReportType:      in.ReportType,
		ItemName:        htmlsanitize.PlainText(in.ItemName),
		Description:     htmlsanitize.Sanitize(in.Description),
		TurnOver:        htmlsanitize.PlainText(in.TurnOver),
		LocationDetails: htmlsanitize.PlainText(in.LocationDetails),
		ContactDetails:  htmlsanitize.PlainText(in.ContactDetails),
		DateLostOrFound: in.DateLostOrFound.UTC(),
		Image:           in.Image,
		PostedBy:        uid,
	})
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to create report", err))
		return
	}
	respond.Created(w, rep)
}

// ServeOne returns one report with identities resolved.
//
// Route: GET /api/reports/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, err := authz.ParseID(chi.URLParam(r, "id"), "report")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "report get")
	defer cancel()

	item, err := feedqueries.One(ctx, h.DB, models.Ref(models.KindReport, id))
	if errors.Is(err, feedqueries.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Report not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load report", err))
		return
	}
	respond.OK(w, item)
}

// loadOwned loads the report named in the path and confirms the caller filed it.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, verb string) (models.ReportItem, bool) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.ReportItem{}, false
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "report")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.ReportItem{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "report load")
	defer cancel()

	rep, err := reportstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, reportstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Report not found"))
		return rep, false
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load report", err))
		return rep, false
	}
	if rep.PostedBy != uid {
		respond.Error(w, r, h.Log, apperr.Forbidden("You can only "+verb+" your own reports."))
		return rep, false
	}
	return rep, true
}

// HandleStatus moves a report between active, claimed and recovered.
//
// Route: PATCH /api/reports/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	rep, ok := h.loadOwned(w, r, "update")
	if !ok {
		return
	}
	uid, _ := authz.UserID(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "report status")
	defer cancel()

	updated, err := reportstore.New(h.DB).SetStatus(ctx, rep.ID, in.Status)
	if errors.Is(err, reportstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Report not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update report", err))
		return
	}
	if rep.Status != updated.Status {
		h.Audit.ReportStatusChanged(ctx, r, uid, rep.ID, updated.Status)
	}
	respond.OK(w, updated)
}

// HandleDelete removes the report with the notifications and saved items
// that reference it.
//
// Route: DELETE /api/reports/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadOwned(w, r, "delete")
	if !ok {
		return
	}
	uid, _ := authz.UserID(r)
	ref := models.Ref(models.KindReport, rep.ID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "report delete")
	defer cancel()

	res, err := cascade.ContentTx(ctx, h.DB, h.Log, ref)
	if err != nil {
		h.Log.Error("report delete cascade failed", zap.Error(err), zap.String("ref", ref.String()))
		respond.Error(w, r, h.Log, apperr.Server("failed to delete report", err))
		return
	}
	h.Audit.ContentDeleted(ctx, r, uid, ref.String())

	respond.OK(w, res)
}

// HandleWitness records the caller as a witness on someone else's report.
// Vouching twice is accepted and changes nothing; only the first vouch
// notifies the owner.
//
// Route: POST /api/reports/{id}/witness
func (h *Handler) HandleWitness(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.Unauthenticated("sign in required"))
		return
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "report")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "report witness")
	defer cancel()

	store := reportstore.New(h.DB)
	rep, err := store.GetByID(ctx, id)
	if errors.Is(err, reportstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Report not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load report", err))
		return
	}
	if rep.PostedBy == uid {
		respond.Error(w, r, h.Log, apperr.Forbidden("You cannot witness your own report."))
		return
	}

	added, count, err := store.AddWitness(ctx, id, uid, time.Now())
	if errors.Is(err, reportstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Report not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to add witness", err))
		return
	}

	if added {
		h.Engine.Notify(fanout.Direct{
			SenderID:    uid,
			RecipientID: rep.PostedBy,
			Ref:         models.Ref(models.KindReport, rep.ID),
			Message:     fanout.WitnessMessage(name),
		})
	}

	respond.OK(w, witnessResult{Witnessed: true, WitnessCount: count})
}
