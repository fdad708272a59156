package subscriptionstore

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

// Store manages event reminder subscriptions. (event_id, user_id) is
// unique.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_subscribers")}
}

// Toggle removes the subscription when present and creates it otherwise.
// It returns the resulting state.
func (s *Store) Toggle(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"event_id": eventID, "user_id": userID})
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.c.InsertOne(ctx, models.EventSubscription{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if wafflemongo.IsDup(err) {
		// A concurrent toggle inserted the same pair.
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether userID is subscribed to eventID.
func (s *Store) Exists(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"event_id": eventID, "user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Claim marks every not-yet-notified subscriber of eventID as notified
// under token. Each document flips at most once, so a subscriber is
// claimed by exactly one sweep no matter how many run.
func (s *Store) Claim(ctx context.Context, eventID primitive.ObjectID, token string, at time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"event_id": eventID, "is_notified": false},
		bson.M{"$set": bson.M{
			"is_notified": true,
			"claim_token": token,
			"notified_at": at.UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Claimed returns the subscriptions of eventID claimed under token.
func (s *Store) Claimed(ctx context.Context, eventID primitive.ObjectID, token string) ([]models.EventSubscription, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID, "claim_token": token})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EventSubscription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByEvents removes all subscriptions of the given events.
func (s *Store) DeleteByEvents(ctx context.Context, eventIDs []primitive.ObjectID) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"event_id": bson.M{"$in": eventIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
