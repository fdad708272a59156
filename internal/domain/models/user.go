// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User is the identity record. Credentials live with the identity provider;
// this service only changes Following and, when seeding, Role.
type User struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Firstname   string               `bson:"firstname" json:"firstname"`
	Lastname    string               `bson:"lastname" json:"lastname"`
	Email       string               `bson:"email" json:"email"` // stored lowercase
	Course      string               `bson:"course" json:"course"`
	ProfileLink string               `bson:"profile_link" json:"profileLink"`
	Role        string               `bson:"role" json:"role"` // user | moderator
	Following   []primitive.ObjectID `bson:"following" json:"following"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.Firstname == "":
		return u.Lastname
	case u.Lastname == "":
		return u.Firstname
	}
	return u.Firstname + " " + u.Lastname
}

// UserSummary is the display identity resolved into feeds and notifications.
// It never carries anything beyond names, avatar and email.
type UserSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Firstname   string             `bson:"firstname" json:"firstname"`
	Lastname    string             `bson:"lastname" json:"lastname"`
	ProfileLink string             `bson:"profile_link" json:"profileLink,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
}
