// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in the comments array of every content document, in
// insertion order.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// Witness is a user vouching for a lost/found report.
type Witness struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	VouchTime time.Time          `bson:"vouch_time" json:"vouchTime"`
}
