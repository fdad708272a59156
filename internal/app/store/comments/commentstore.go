package commentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("comment belongs to another user")
)

// Store edits the comments array embedded in each content collection.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) coll(kind models.ContentKind) *mongo.Collection {
	return s.db.Collection(kind.Collection())
}

// Post identifies who owns the post a comment was added to. OrganizationID
// is nil for reports.
type Post struct {
	PostedBy       primitive.ObjectID  `bson:"posted_by"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty"`
}

// Add appends c to the post and returns the post's owner so callers can
// notify them.
func (s *Store) Add(ctx context.Context, ref models.ContentRef, c models.Comment) (models.Comment, Post, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var post Post
	err := s.coll(ref.Kind).FindOneAndUpdate(ctx,
		bson.M{"_id": ref.ID},
		bson.M{"$push": bson.M{"comments": c}},
		options.FindOneAndUpdate().SetProjection(bson.M{"posted_by": 1, "organization_id": 1}),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Comment{}, Post{}, err
	}
	return c, post, nil
}

// Get returns a single comment of the post.
func (s *Store) Get(ctx context.Context, ref models.ContentRef, commentID primitive.ObjectID) (models.Comment, error) {
	var post struct {
		Comments []models.Comment `bson:"comments"`
	}
	err := s.coll(ref.Kind).FindOne(ctx,
		bson.M{"_id": ref.ID},
		options.FindOne().SetProjection(bson.M{
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID}},
		}),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return models.Comment{}, ErrPostNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}
	if len(post.Comments) == 0 {
		return models.Comment{}, ErrCommentNotFound
	}
	return post.Comments[0], nil
}

// Edit replaces the text of a comment written by authorID.
func (s *Store) Edit(ctx context.Context, ref models.ContentRef, commentID, authorID primitive.ObjectID, text string) (models.Comment, error) {
	c, err := s.Get(ctx, ref, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if c.UserID != authorID {
		return models.Comment{}, ErrNotAuthor
	}

	now := time.Now().UTC()
	res, err := s.coll(ref.Kind).UpdateOne(ctx,
		bson.M{
			"_id":      ref.ID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user_id": authorID}},
		},
		bson.M{"$set": bson.M{
			"comments.$.text":       text,
			"comments.$.updated_at": now,
		}},
	)
	if err != nil {
		return models.Comment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, ErrCommentNotFound
	}
	c.Text = text
	c.UpdatedAt = &now
	return c, nil
}

// Delete removes a comment written by authorID.
func (s *Store) Delete(ctx context.Context, ref models.ContentRef, commentID, authorID primitive.ObjectID) error {
	c, err := s.Get(ctx, ref, commentID)
	if err != nil {
		return err
	}
	if c.UserID != authorID {
		return ErrNotAuthor
	}

	res, err := s.coll(ref.Kind).UpdateOne(ctx,
		bson.M{"_id": ref.ID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID, "user_id": authorID}}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}
