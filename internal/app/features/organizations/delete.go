// internal/app/features/organizations/delete.go
package organizations

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/store/cascade"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/orgutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete removes an organization, pulls it from every follow set and
// deletes its academic posts and events with their dependents.
//
// Route: DELETE /api/organizations/{id} (moderator)
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequireModerator(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	orgID, err := authz.ParseID(chi.URLParam(r, "id"), "organization")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "organization delete")
	defer cancel()

	org, err := orgutil.Load(ctx, h.DB, orgID)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	res, err := cascade.OrganizationTx(ctx, h.DB, h.Log, orgID)
	if err != nil {
		h.Log.Error("delete organization failed", zap.Error(err), zap.String("org_id", orgID.Hex()))
		respond.Error(w, r, h.Log, apperr.Server("failed to delete organization", err))
		return
	}

	h.Audit.OrgDeleted(ctx, r, actor, orgID, org.Name, res.PostsRemoved())
	respond.OK(w, deleteResult{
		ID:            orgID,
		FollowsPulled: res.FollowsPulled,
		PostsRemoved:  res.PostsRemoved(),
	})
}
