package feedqueries

import (
	"context"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// identities is the result of one batched user lookup and one batched
// organization lookup.
type identities struct {
	users map[primitive.ObjectID]models.UserSummary
	orgs  map[primitive.ObjectID]models.OrgSummary
	heads map[primitive.ObjectID]bool
}

type idSet map[primitive.ObjectID]struct{}

func (s idSet) add(id primitive.ObjectID) {
	if !id.IsZero() {
		s[id] = struct{}{}
	}
}

func (s idSet) slice() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

func addComments(s idSet, cs []models.Comment) {
	for _, c := range cs {
		s.add(c.UserID)
	}
}

// resolve loads every identity the raw results reference. Organizations go
// first so their heads can join the single user lookup.
func resolve(ctx context.Context, db *mongo.Database, raw *rawSet, withHeads bool) (*identities, error) {
	orgIDs := idSet{}
	userIDs := idSet{}

	for _, p := range raw.academics {
		orgIDs.add(p.OrganizationID)
		userIDs.add(p.PostedBy)
		addComments(userIDs, p.Comments)
	}
	for _, e := range raw.events {
		orgIDs.add(e.OrganizationID)
		userIDs.add(e.PostedBy)
		addComments(userIDs, e.Comments)
	}
	for _, r := range raw.reports {
		userIDs.add(r.PostedBy)
		addComments(userIDs, r.Comments)
		for _, w := range r.Witnesses {
			userIDs.add(w.UserID)
		}
	}

	orgs, err := organizationstore.New(db).Summaries(ctx, orgIDs.slice())
	if err != nil {
		return nil, err
	}

	heads := map[primitive.ObjectID]bool{}
	if withHeads {
		for _, o := range orgs {
			userIDs.add(o.HeadID)
			heads[o.HeadID] = true
		}
	}

	users, err := userstore.New(db).Summaries(ctx, userIDs.slice(), withHeads)
	if err != nil {
		return nil, err
	}

	// Email is only shown for organization heads.
	for id, u := range users {
		if !heads[id] {
			u.Email = ""
			users[id] = u
		}
	}

	return &identities{users: users, orgs: orgs, heads: heads}, nil
}

// user returns a copy of the summary for id, or nil when the user no
// longer exists.
func (ids *identities) user(id primitive.ObjectID) *models.UserSummary {
	u, ok := ids.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (ids *identities) org(id primitive.ObjectID) *models.OrgSummary {
	o, ok := ids.orgs[id]
	if !ok {
		return nil
	}
	if ids.heads[o.HeadID] {
		o.Head = ids.user(o.HeadID)
	}
	return &o
}

func (ids *identities) comments(cs []models.Comment) []CommentView {
	out := make([]CommentView, len(cs))
	for i, c := range cs {
		out[i] = CommentView{
			ID:        c.ID,
			User:      ids.user(c.UserID),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return out
}
