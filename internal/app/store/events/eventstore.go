package eventstore

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

// ErrNotFound is returned when an event does not exist.
var ErrNotFound = errors.New("event not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.KindEvent.Collection())}
}

// Create inserts e, filling id, comments and timestamps when unset.
func (s *Store) Create(ctx context.Context, e models.EventPost) (models.EventPost, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Comments == nil {
		e.Comments = []models.Comment{}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.EventPost{}, err
	}
	return e, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EventPost, error) {
	var e models.EventPost
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.EventPost{}, ErrNotFound
	}
	if err != nil {
		return models.EventPost{}, err
	}
	return e, nil
}

// Exists reports whether an event with id exists.
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

// Find returns events matching filter, newest first.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.EventPost, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.EventPost{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartingBetween returns events whose start_date is in [from, to).
func (s *Store) StartingBetween(ctx context.Context, from, to time.Time) ([]models.EventPost, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"start_date": bson.M{"$gte": from, "$lt": to}},
		options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.EventPost{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is the set of head-editable fields. Nil fields are left alone.
type Update struct {
	EventName *string
	Location  *string
	Course    *string
	OpenTo    *string
	StartDate *time.Time
	EndDate   *time.Time
	Image     *string
}

// UpdateFields applies u and returns the updated event.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, u Update) (models.EventPost, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.EventName != nil {
		set["event_name"] = *u.EventName
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Course != nil {
		set["course"] = *u.Course
	}
	if u.OpenTo != nil {
		set["open_to"] = *u.OpenTo
	}
	if u.StartDate != nil {
		set["start_date"] = u.StartDate.UTC()
	}
	if u.EndDate != nil {
		set["end_date"] = u.EndDate.UTC()
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}

	var e models.EventPost
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.EventPost{}, ErrNotFound
	}
	if err != nil {
		return models.EventPost{}, err
	}
	return e, nil
}

// Delete removes the event; a missing event deletes nothing.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByOrg lists the ids of every event published for orgID.
func (s *Store) IDsByOrg(ctx context.Context, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, options.Find().SetProjection(bson.M{"_id": 1}))
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

// DeleteByOrg removes every event published for orgID.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
