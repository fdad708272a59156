package messagestore

import (
	"context"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Create inserts m.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

func between(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"sender_id": a, "receiver_id": b},
		{"sender_id": b, "receiver_id": a},
	}}
}

// Conversation returns every message between a and b, oldest first.
func (s *Store) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	cur, err := s.c.Find(ctx, between(a, b), options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkConversationRead flags every message other sent to me as read.
func (s *Store) MarkConversationRead(ctx context.Context, me, other primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"sender_id": other, "receiver_id": me, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Partner summarises one conversation from the caller's side.
type Partner struct {
	UserID        primitive.ObjectID `bson:"_id" json:"userId"`
	LastMessage   string             `bson:"last_message" json:"lastMessage"`
	LastMessageAt time.Time          `bson:"last_message_at" json:"lastMessageAt"`
	Unread        int                `bson:"unread" json:"unreadCount"`
}

// Partners lists everyone me has exchanged messages with, most recent
// conversation first, with the number of unread messages from each.
func (s *Store) Partners(ctx context.Context, me primitive.ObjectID) ([]Partner, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": []bson.M{
			{"sender_id": me},
			{"receiver_id": me},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender_id", me}},
				"$receiver_id",
				"$sender_id",
			}},
			"last_message":    bson.M{"$first": "$text"},
			"last_message_at": bson.M{"$first": "$created_at"},
			"unread": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver_id", me}},
					bson.M{"$eq": bson.A{"$is_read", false}},
				}},
				1,
				0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message_at", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Partner{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
