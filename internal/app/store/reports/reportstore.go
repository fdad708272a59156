package reportstore

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

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = errors.New("report not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.KindReport.Collection())}
}

// Create inserts r. Status defaults to active.
func (s *Store) Create(ctx context.Context, r models.ReportItem) (models.ReportItem, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Status == "" {
		r.Status = models.ReportStatusActive
	}
	if r.Witnesses == nil {
		r.Witnesses = []models.Witness{}
	}
	if r.Comments == nil {
		r.Comments = []models.Comment{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.UpdatedAt = r.CreatedAt
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.ReportItem{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ReportItem, error) {
	var r models.ReportItem
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.ReportItem{}, ErrNotFound
	}
	if err != nil {
		return models.ReportItem{}, err
	}
	return r, nil
}

// Find returns reports matching filter, newest first.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.ReportItem, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ReportItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves the report to status and returns the updated report.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.ReportItem, error) {
	var r models.ReportItem
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.ReportItem{}, ErrNotFound
	}
	if err != nil {
		return models.ReportItem{}, err
	}
	return r, nil
}

// AddWitness appends userID to the witness list unless already present.
// added is false for a repeat vouch; count is the resulting list length.
// Callers enforce that the owner cannot witness their own report.
func (s *Store) AddWitness(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (added bool, count int, err error) {
	var r models.ReportItem
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "witnesses.user_id": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"witnesses": models.Witness{UserID: userID, VouchTime: at.UTC()}}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"witnesses": 1}),
	).Decode(&r)
	if err == nil {
		return true, len(r.Witnesses), nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, err
	}

	// Either the report is gone or userID already vouched.
	err = s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"witnesses": 1})).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return false, len(r.Witnesses), nil
}

// Delete removes the report; a missing report deletes nothing.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
