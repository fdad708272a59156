// internal/domain/models/saveditem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedItem is a user's bookmark of a content item.
type SavedItem struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	Ref       ContentRef         `bson:",inline" json:"post"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
