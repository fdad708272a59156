// internal/app/features/organizations/seed.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// seedConcurrency bounds parallel role updates.
const seedConcurrency = 4

// HandleSeed upserts the built-in organization catalogue and promotes every
// head and the moderator to the moderator role. Running it again changes
// nothing but heads that were reassigned.
//
// Route: POST /api/organizations/seed (moderator)
func (h *Handler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	actor, err := authz.RequireModerator(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in seedInput
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	moderator := actor
	if in.ModeratorID != "" {
		moderator, _ = authz.ParseID(in.ModeratorID, "moderator")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "organizations seed")
	defer cancel()

	store := organizationstore.New(h.DB)
	orgs := make([]models.Organization, 0, len(catalogue))
	promote := map[primitive.ObjectID]bool{moderator: true}
	for _, c := range catalogue {
		head := actor
		if hex, ok := in.Heads[c.Name]; ok {
			head, _ = authz.ParseID(hex, "head")
		}
		mod := moderator
		org, err := store.UpsertByName(ctx, models.Organization{
			Name:        c.Name,
			Course:      c.Course,
			Description: c.Description,
			HeadID:      head,
			ModeratorID: &mod,
		})
		if err != nil {
			respond.Error(w, r, h.Log, apperr.Server("failed to seed organizations", err))
			return
		}
		orgs = append(orgs, org)
		promote[head] = true
	}

	promoted, err := h.promote(ctx, r, actor, promote)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to promote organization heads", err))
		return
	}

	h.Log.Info("organizations seeded",
		zap.Int("organizations", len(orgs)),
		zap.Int("promoted", promoted))
	h.Audit.OrgsSeeded(ctx, r, actor, len(orgs), promoted)

	respond.Created(w, seedResult{Organizations: orgs, Promoted: promoted})
}

// promote sets the moderator role on every id concurrently. Ids that no
// longer match a user are skipped.
func (h *Handler) promote(ctx context.Context, r *http.Request, actor primitive.ObjectID, ids map[primitive.ObjectID]bool) (int, error) {
	users := userstore.New(h.DB)
	done := make([]bool, 0, len(ids))
	list := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
		done = append(done, false)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for i, id := range list {
		g.Go(func() error {
			err := users.SetRole(gctx, id, models.RoleModerator)
			if errors.Is(err, userstore.ErrNotFound) {
				h.Log.Warn("seed: head not found", zap.String("user_id", id.Hex()))
				return nil
			}
			if err != nil {
				return err
			}
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for i, ok := range done {
		if ok {
			n++
			h.Audit.RolePromoted(ctx, r, actor, list[i], models.RoleModerator)
		}
	}
	return n, nil
}
