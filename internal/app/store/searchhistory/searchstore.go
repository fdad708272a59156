package searchstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecentLimit is how many entries Recent returns.
const RecentLimit = 10

var ErrNotFound = errors.New("search entry not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("search_history")}
}

// Record remembers query for userID in searchContext. Repeating a search
// only bumps updated_at. Blank queries are ignored.
func (s *Store) Record(ctx context.Context, userID primitive.ObjectID, query, searchContext string) error {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "query": q, "context": searchContext},
		bson.M{
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Recent returns the user's most recently used searches.
func (s *Store) Recent(ctx context.Context, userID primitive.ObjectID) ([]models.SearchEntry, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "updated_at", Value: -1}}).
			SetLimit(RecentLimit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.SearchEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes one of the user's entries.
func (s *Store) Remove(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes the user's whole history.
func (s *Store) Clear(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
