// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPost is a scheduled activity published on behalf of an organization.
// Subscribers get a reminder shortly before StartDate.
type EventPost struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	EventName      string             `bson:"event_name" json:"eventName"`
	Location       string             `bson:"location" json:"location"`
	Course         string             `bson:"course" json:"course"`
	OpenTo         string             `bson:"open_to" json:"openTo"`
	StartDate      time.Time          `bson:"start_date" json:"startDate"`
	EndDate        time.Time          `bson:"end_date" json:"endDate"`
	Image          string             `bson:"image" json:"image"`
	PostedBy       primitive.ObjectID `bson:"posted_by" json:"postedBy"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization"`
	Comments       []Comment          `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// EventSubscription records that a user wants a reminder for an event.
// IsNotified flips to true once and is never reset.
type EventSubscription struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	EventID    primitive.ObjectID `bson:"event_id" json:"event"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user"`
	IsNotified bool               `bson:"is_notified" json:"isNotified"`
	ClaimToken string             `bson:"claim_token,omitempty" json:"-"`
	NotifiedAt *time.Time         `bson:"notified_at,omitempty" json:"notifiedAt,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
