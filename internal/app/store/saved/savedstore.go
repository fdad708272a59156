package savedstore

import (
	"context"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages bookmarks. (user_id, ref_id, ref_kind) is unique.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("saved_items")}
}

func refFilter(userID primitive.ObjectID, ref models.ContentRef) bson.M {
	return bson.M{"user_id": userID, "ref_id": ref.ID, "ref_kind": ref.Kind}
}

// Toggle removes the bookmark when present and creates it otherwise.
func (s *Store) Toggle(ctx context.Context, userID primitive.ObjectID, ref models.ContentRef) (bool, error) {
	res, err := s.c.DeleteOne(ctx, refFilter(userID, ref))
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.c.InsertOne(ctx, models.SavedItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Ref:       ref,
		CreatedAt: time.Now().UTC(),
	})
	if wafflemongo.IsDup(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether userID has saved ref.
func (s *Store) Exists(ctx context.Context, userID primitive.ObjectID, ref models.ContentRef) (bool, error) {
	n, err := s.c.CountDocuments(ctx, refFilter(userID, ref), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the user's bookmarks, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.SavedItem, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SavedItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IDsByKind partitions the user's bookmarks by content kind. Kinds with
// no bookmarks are absent from the map.
func (s *Store) IDsByKind(ctx context.Context, userID primitive.ObjectID) (map[models.ContentKind][]primitive.ObjectID, error) {
	items, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[models.ContentKind][]primitive.ObjectID)
	for _, it := range items {
		if !it.Ref.Kind.Valid() {
			continue
		}
		out[it.Ref.Kind] = append(out[it.Ref.Kind], it.Ref.ID)
	}
	return out, nil
}

// DeleteByRefs removes every bookmark pointing at ids of kind.
func (s *Store) DeleteByRefs(ctx context.Context, kind models.ContentKind, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"ref_kind": kind, "ref_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ContentExists reports whether ref still points at a stored post.
func (s *Store) ContentExists(ctx context.Context, ref models.ContentRef) (bool, error) {
	if !ref.Kind.Valid() {
		return false, nil
	}
	n, err := s.c.Database().Collection(ref.Kind.Collection()).
		CountDocuments(ctx, bson.M{"_id": ref.ID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
