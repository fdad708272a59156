// internal/app/features/organizations/list.go
package organizations

import (
	"errors"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/orgutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeList lists the organizations of the caller's course, marking the
// ones they follow.
//
// Route: GET /api/organizations
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "organizations list")
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) || (err == nil && u.Course == "") {
		respond.Error(w, r, h.Log, apperr.Client("User not found or has no course assigned"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load user", err))
		return
	}

	orgs, err := organizationstore.New(h.DB).ListByCourse(ctx, u.Course)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to list organizations", err))
		return
	}

	followed := make(map[primitive.ObjectID]bool, len(u.Following))
	for _, id := range u.Following {
		followed[id] = true
	}
	rows := make([]orgRow, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, orgRow{Organization: o, IsFollowed: followed[o.ID]})
	}
	respond.OK(w, rows)
}

// ServeAll lists every organization.
//
// Route: GET /api/organizations/all (moderator)
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "organizations list all")
	defer cancel()

	orgs, err := organizationstore.New(h.DB).ListAll(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to list organizations", err))
		return
	}
	respond.OK(w, orgs)
}

// ServeManaged lists the organizations the caller heads, with how many
// posts each has published.
//
// Route: GET /api/organizations/managed
func (h *Handler) ServeManaged(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "organizations managed")
	defer cancel()

	orgs, err := organizationstore.New(h.DB).ListByHead(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to list organizations", err))
		return
	}

	counts, err := orgutil.PostCounts(ctx, h.DB, orgIDs(orgs))
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to count posts", err))
		return
	}

	rows := make([]managedRow, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, managedRow{Organization: o, Posts: counts[o.ID]})
	}
	respond.OK(w, managedResult{IsHead: len(rows) > 0, Organizations: rows})
}

// orgIDs collects the ids of orgs.
func orgIDs(orgs []models.Organization) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(orgs))
	for i, o := range orgs {
		out[i] = o.ID
	}
	return out
}
