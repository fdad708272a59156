// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType values.
const (
	NotifyNewPost = "NEW_POST"
	NotifyMention = "MENTION"
	NotifySystem  = "SYSTEM"
)

// Notification is one recipient-addressed entry. Only IsRead/ReadAt change
// after insert.
type Notification struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	RecipientID    primitive.ObjectID  `bson:"recipient_id" json:"recipient"`
	SenderID       *primitive.ObjectID `bson:"sender_id,omitempty" json:"sender,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization,omitempty"`
	Type           string              `bson:"type" json:"type"`
	Ref            ContentRef          `bson:",inline" json:"reference"`
	Message        string              `bson:"message" json:"message"`
	IsRead         bool                `bson:"is_read" json:"isRead"`
	ReadAt         *time.Time          `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"createdAt"`
}
