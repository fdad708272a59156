// internal/app/features/organizations/new.go
package organizations

import (
	"errors"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate creates an organization. Names are unique ignoring case and
// accents.
//
// Route: POST /api/organizations (moderator)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequireModerator(r)
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
	headID, _ := authz.ParseID(in.HeadID, "head")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "organization create")
	defer cancel()

	ok, err := userstore.New(h.DB).Exists(ctx, headID)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load head", err))
		return
	}
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("Organization head not found"))
		return
	}

	org, err := organizationstore.New(h.DB).Create(ctx, models.Organization{
		Name:        htmlsanitize.PlainText(in.Name),
		Description: htmlsanitize.PlainText(in.Description),
		ProfileLink: in.ProfileLink,
		Course:      in.Course,
		HeadID:      headID,
		ModeratorID: &actor,
	})
	if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		respond.Error(w, r, h.Log, apperr.Conflict("An organization with this name already exists."))
		return
	}
	if err != nil {
		h.Log.Error("create organization failed", zap.Error(err), zap.String("name", in.Name))
		respond.Error(w, r, h.Log, apperr.Server("failed to create organization", err))
		return
	}

	h.Audit.OrgCreated(ctx, r, actor, org.ID, org.Name)
	respond.Created(w, org)
}
