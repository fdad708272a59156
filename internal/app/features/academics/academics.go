// internal/app/features/academics/academics.go
package academics

import (
	"errors"
	"net/http"

	academicstore "github.com/dalemusser/campushub/internal/app/store/academics"
	"github.com/dalemusser/campushub/internal/app/store/cascade"
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

// HandleCreate publishes an academic post for an organization the caller
// heads, then notifies the organization's followers in the background.
//
// Route: POST /api/academics
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "academic create")
	defer cancel()

	org, err := orgutil.RequireHead(ctx, h.DB, orgID, uid)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	post, err := academicstore.New(h.DB).Create(ctx, models.AcademicPost{
		Title:          htmlsanitize.PlainText(in.Title),
		Content:        htmlsanitize.Sanitize(in.Content),
		Image:          in.Image,
		PostedBy:       uid,
		OrganizationID: org.ID,
	})
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to create academic post", err))
		return
	}

	h.Engine.Broadcast(fanout.OrgBroadcast{
		ActorID: uid,
		OrgID:   org.ID,
		Ref:     models.Ref(models.KindAcademic, post.ID),
		Message: fanout.AcademicPostMessage(post.Title),
	})

	respond.Created(w, post)
}

// ServeOne returns one post with identities resolved.
//
// Route: GET /api/academics/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, err := authz.ParseID(chi.URLParam(r, "id"), "academic post")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "academic get")
	defer cancel()

	item, err := feedqueries.One(ctx, h.DB, models.Ref(models.KindAcademic, id))
	if errors.Is(err, feedqueries.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Academic post not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load academic post", err))
		return
	}
	respond.OK(w, item)
}

// loadOwned loads the post and confirms the caller heads its organization.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (models.AcademicPost, bool) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.AcademicPost{}, false
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "academic post")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return models.AcademicPost{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "academic load")
	defer cancel()

	post, err := academicstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, academicstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Academic post not found"))
		return post, false
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load academic post", err))
		return post, false
	}
	if _, err := orgutil.RequireHead(ctx, h.DB, post.OrganizationID, uid); err != nil {
		respond.Error(w, r, h.Log, err)
		return post, false
	}
	return post, true
}

// HandleUpdate edits title, content or image.
//
// Route: PATCH /api/academics/{id}
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
	post, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	u := academicstore.Update{Image: in.Image}
	if in.Title != nil {
		t := htmlsanitize.PlainText(*in.Title)
		u.Title = &t
	}
	if in.Content != nil {
		c := htmlsanitize.Sanitize(*in.Content)
		u.Content = &c
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "academic update")
	defer cancel()

	updated, err := academicstore.New(h.DB).UpdateFields(ctx, post.ID, u)
	if errors.Is(err, academicstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Academic post not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update academic post", err))
		return
	}
	respond.OK(w, updated)
}

// HandleDelete removes the post with its notifications and saved items.
//
// Route: DELETE /api/academics/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	uid, _ := authz.UserID(r)
	ref := models.Ref(models.KindAcademic, post.ID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "academic delete")
	defer cancel()

	res, err := cascade.ContentTx(ctx, h.DB, h.Log, ref)
	if err != nil {
		h.Log.Error("academic delete cascade failed", zap.Error(err), zap.String("ref", ref.String()))
		respond.Error(w, r, h.Log, apperr.Server("failed to delete academic post", err))
		return
	}
	h.Audit.ContentDeleted(ctx, r, uid, ref.String())

	respond.OK(w, res)
}
