// internal/app/features/organizations/follow.go
package organizations

import (
	"context"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/orgutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/txn"
	"github.com/go-chi/chi/v5"
)

// HandleToggleFollow follows the organization, or unfollows it when the
// caller already does. The member counter moves only when the follow set
// actually changed.
//
// Route: POST /api/organizations/{id}/follow
func (h *Handler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "organization follow")
	defer cancel()

	if _, err := orgutil.Load(ctx, h.DB, orgID); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	var res followResult
	err = txn.Run(ctx, h.DB.Client(), h.Log, "organization follow", func(ctx context.Context) error {
		users := userstore.New(h.DB)
		orgs := organizationstore.New(h.DB)

		following, err := users.IsFollowing(ctx, uid, orgID)
		if err != nil {
			return err
		}

		var changed bool
		delta := 1
		if following {
			changed, err = users.Unfollow(ctx, uid, orgID)
			delta = -1
		} else {
			changed, err = users.Follow(ctx, uid, orgID)
		}
		if err != nil {
			return err
		}
		if !following && !changed {
			// No user document matched, so nothing was followed.
			return apperr.NotFound("User not found")
		}

		var members int
		if changed {
			members, err = orgs.AddMembers(ctx, orgID, delta)
		} else {
			members, err = orgs.Members(ctx, orgID)
		}
		if err != nil {
			return err
		}
		res = followResult{IsFollowed: !following, Members: members}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindServer {
			respond.Error(w, r, h.Log, err)
			return
		}
		respond.Error(w, r, h.Log, apperr.Server("failed to update follow", err))
		return
	}
	respond.OK(w, res)
}
