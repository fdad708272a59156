package academicstore

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

// ErrNotFound is returned when an academic post does not exist.
var ErrNotFound = errors.New("academic post not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.KindAcademic.Collection())}
}

// Create inserts p, filling id, comments and timestamps when unset.
func (s *Store) Create(ctx context.Context, p models.AcademicPost) (models.AcademicPost, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = p.CreatedAt
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.AcademicPost{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.AcademicPost, error) {
	var p models.AcademicPost
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.AcademicPost{}, ErrNotFound
	}
	if err != nil {
		return models.AcademicPost{}, err
	}
	return p, nil
}

// Find returns posts matching filter, newest first.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.AcademicPost, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AcademicPost{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is the set of head-editable fields. Nil fields are left alone.
type Update struct {
	Title   *string
	Content *string
	Image   *string
}

// UpdateFields applies u and returns the updated post.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, u Update) (models.AcademicPost, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}

	var p models.AcademicPost
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.AcademicPost{}, ErrNotFound
	}
	if err != nil {
		return models.AcademicPost{}, err
	}
	return p, nil
}

// Delete removes the post. Deleting a missing post is not an error so a
// retried cascade converges.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByOrg lists the ids of every post published for orgID.
func (s *Store) IDsByOrg(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return distinctIDs(ctx, s.c, bson.M{"organization_id": orgID})
}

// DeleteByOrg removes every post published for orgID.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func distinctIDs(ctx context.Context, c *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cur, err := c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
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
