// internal/domain/models/academic.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcademicPost is an announcement published on behalf of an organization.
type AcademicPost struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Content        string             `bson:"content" json:"content"`
	Image          string             `bson:"image" json:"image"`
	PostedBy       primitive.ObjectID `bson:"posted_by" json:"postedBy"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization"`
	Comments       []Comment          `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
