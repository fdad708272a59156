// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is a student organization. Members is derived from the
// follow sets on users and may drift until the reconcile job runs.
type Organization struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"organizationName"`
	NameCI      string              `bson:"name_ci" json:"-"` // ← always stored
	Description string              `bson:"description" json:"description"`
	ProfileLink string              `bson:"profile_link" json:"profileLink"`
	Course      string              `bson:"course" json:"course"`
	Members     int                 `bson:"members" json:"members"`
	HeadID      primitive.ObjectID  `bson:"head_id" json:"organizationHeadID"`
	ModeratorID *primitive.ObjectID `bson:"moderator_id,omitempty" json:"moderators,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// OrgSummary is the organization identity resolved into feeds and
// notifications. Head is filled only where the caller asks for it.
type OrgSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"organizationName"`
	ProfileLink string             `bson:"profile_link" json:"profileLink"`
	HeadID      primitive.ObjectID `bson:"head_id" json:"-"`
	Head        *UserSummary       `bson:"-" json:"organizationHeadID,omitempty"`
}
