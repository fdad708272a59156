package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a user lookup misses.
var ErrNotFound = errors.New("user not found")

// Store reads identities and maintains each user's follow set. Profile
// fields are owned by the identity provider and never written here.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// summaryProjection never includes anything beyond display identity.
var summaryProjection = bson.M{"firstname": 1, "lastname": 1, "profile_link": 1}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Exists reports whether a user with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Summaries resolves display identities for ids. withEmail adds the email
// address (organization heads in search and saved views).
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID, withEmail bool) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	proj := bson.M{}
	for k, v := range summaryProjection {
		proj[k] = v
	}
	if withEmail {
		proj["email"] = 1
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(proj))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.UserSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}

// FollowerIDs returns users whose follow set contains orgID, minus exclude.
func (s *Store) FollowerIDs(ctx context.Context, orgID, exclude primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"following": orgID}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// IsFollowing reports whether userID follows orgID.
func (s *Store) IsFollowing(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx,
		bson.M{"_id": userID, "following": orgID},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Follow adds orgID to the follow set. changed is false when it was
// already there, so callers only move the counter on a real change.
func (s *Store) Follow(ctx context.Context, userID, orgID primitive.ObjectID) (changed bool, err error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "following": bson.M{"$ne": orgID}},
		bson.M{"$addToSet": bson.M{"following": orgID}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Unfollow removes orgID from the follow set; changed as in Follow.
func (s *Store) Unfollow(ctx context.Context, userID, orgID primitive.ObjectID) (changed bool, err error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "following": orgID},
		bson.M{"$pull": bson.M{"following": orgID}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// RemoveOrgFromAll pulls orgID out of every follow set.
func (s *Store) RemoveOrgFromAll(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"following": orgID},
		bson.M{"$pull": bson.M{"following": orgID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FollowerCounts counts followers per organization across all users.
func (s *Store) FollowerCounts(ctx context.Context) (map[primitive.ObjectID]int, error) {
	pipe := mongo.Pipeline{
		{{Key: "$unwind", Value: "$following"}},
		{{Key: "$group", Value: bson.M{"_id": "$following", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
		N  int                `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int, len(rows))
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

// SetRole sets the role of a single user.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
