// internal/app/store/organizations/organizationstore.go
package organizationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
	ErrNotFound              = errors.New("organization not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	org.ID = primitive.NewObjectID()
	org.NameCI = text.Fold(org.Name)
	org.Members = 0
	org.CreatedAt = now
	org.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, err
	}
	return org, nil
}

// UpsertByName inserts org unless one with the same folded name exists.
// Existing organizations keep their counters and ids; head and moderator
// are refreshed. Returns the stored document.
func (s *Store) UpsertByName(ctx context.Context, org models.Organization) (models.Organization, error) {
	now := time.Now().UTC()
	set := bson.M{
		"name":         org.Name,
		"description":  org.Description,
		"profile_link": org.ProfileLink,
		"course":       org.Course,
		"head_id":      org.HeadID,
		"updated_at":   now,
	}
	if org.ModeratorID != nil {
		set["moderator_id"] = *org.ModeratorID
	}

	var out models.Organization
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"name_ci": text.Fold(org.Name)},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"members":    0,
				"created_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return models.Organization{}, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return org, nil
}

// Summaries loads display identities for ids, keyed by id. Missing ids are
// simply absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.OrgSummary, error) {
	out := make(map[primitive.ObjectID]models.OrgSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	proj := options.Find().SetProjection(bson.M{"name": 1, "profile_link": 1, "head_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.OrgSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, o := range rows {
		out[o.ID] = o
	}
	return out, nil
}

// ListByCourse returns organizations affiliated with course, by name.
func (s *Store) ListByCourse(ctx context.Context, course string) ([]models.Organization, error) {
	return s.Find(ctx, bson.M{"course": course}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
}

// ListAll returns every organization, by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Organization, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
}

// ListByHead returns organizations headed by userID.
func (s *Store) ListByHead(ctx context.Context, userID primitive.ObjectID) ([]models.Organization, error) {
	return s.Find(ctx, bson.M{"head_id": userID}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
}

// AddMembers adjusts the member counter by delta and returns the new value.
func (s *Store) AddMembers(ctx context.Context, id primitive.ObjectID, delta int) (int, error) {
	var out struct {
		Members int `bson:"members"`
	}
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"members": delta}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"members": 1}),
	).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return out.Members, nil
}

// Members returns the current member counter.
func (s *Store) Members(ctx context.Context, id primitive.ObjectID) (int, error) {
	var out struct {
		Members int `bson:"members"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"members": 1})).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return out.Members, nil
}

// SetMemberCounts overwrites counters from a computed map. Organizations
// absent from counts are set to zero. Returns how many documents changed.
func (s *Store) SetMemberCounts(ctx context.Context, counts map[primitive.ObjectID]int) (int64, error) {
	var changed int64

	ids := make([]primitive.ObjectID, 0, len(counts))
	for id, n := range counts {
		ids = append(ids, id)
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id, "members": bson.M{"$ne": n}},
			bson.M{"$set": bson.M{"members": n}},
		)
		if err != nil {
			return changed, err
		}
		changed += res.ModifiedCount
	}

	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$nin": ids}, "members": bson.M{"$ne": 0}},
		bson.M{"$set": bson.M{"members": 0}},
	)
	if err != nil {
		return changed, err
	}
	return changed + res.ModifiedCount, nil
}

// UpdateProfileLink replaces the organization's picture URL.
func (s *Store) UpdateProfileLink(ctx context.Context, id primitive.ObjectID, link string) (models.Organization, error) {
	var out models.Organization
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"profile_link": link, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, err
	}
	return out, nil
}

// Delete removes an organization by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns organizations matching the given filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orgs := []models.Organization{}
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}
