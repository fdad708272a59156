// internal/app/features/organizations/picture.go
package organizations

import (
	"errors"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/orgutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandlePicture replaces the organization's picture.
//
// Route: PATCH /api/organizations/{id}/picture (head or moderator)
func (h *Handler) HandlePicture(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	orgID, err := authz.ParseID(chi.URLParam(r, "id"), "organization")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in pictureInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "organization picture")
	defer cancel()

	if _, err := orgutil.RequireManager(ctx, h.DB, r, orgID); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	org, err := organizationstore.New(h.DB).UpdateProfileLink(ctx, orgID, in.ProfileLink)
	if errors.Is(err, organizationstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Organization not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update picture", err))
		return
	}

	h.Audit.OrgPictureChanged(ctx, r, uid, orgID)
	respond.OK(w, org)
}
