package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a notification does not exist or is not
// addressed to the caller.
var ErrNotFound = errors.New("notification not found")

// Store is the append-only notification log. Only is_read/read_at change
// after insert.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// InsertMany writes one notification per element. Ids and timestamps are
// filled when unset; the ordering is not significant.
func (s *Store) InsertMany(ctx context.Context, ns []models.Notification) (int, error) {
	if len(ns) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(ns))
	for i := range ns {
		if ns[i].ID.IsZero() {
			ns[i].ID = primitive.NewObjectID()
		}
		if ns[i].CreatedAt.IsZero() {
			ns[i].CreatedAt = now
		}
		docs[i] = ns[i]
	}
	res, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil && err != nil {
		return len(res.InsertedIDs), err
	}
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// ListByRecipient returns up to limit notifications for recipientID,
// newest first, strictly older than before when it is set.
func (s *Store) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, before *paging.TimeCursor, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	if before != nil {
		filter = bson.M{"$and": []bson.M{filter, before.Before("created_at")}}
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(paging.SortNewest("created_at")).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUnread counts the recipient's unread notifications.
func (s *Store) CountUnread(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

// MarkRead flags one of the recipient's notifications as read. Marking an
// already-read notification succeeds.
func (s *Store) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient and
// returns how many changed.
func (s *Store) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteByRefs removes every notification pointing at ids of kind.
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

// CountByRef counts notifications pointing at ref.
func (s *Store) CountByRef(ctx context.Context, ref models.ContentRef) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"ref_kind": ref.Kind, "ref_id": ref.ID})
}
