// internal/app/features/organizations/types.go
package organizations

import (
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orgRow is an organization as listed to a user.
type orgRow struct {
	models.Organization
	IsFollowed bool `json:"isFollowed"`
}

// managedRow adds the number of academic posts and events published.
type managedRow struct {
	models.Organization
	Posts int64 `json:"posts"`
}

type managedResult struct {
	IsHead        bool         `json:"isHead"`
	Organizations []managedRow `json:"organizations"`
}

type createInput struct {
	Name        string `json:"organizationName" validate:"nonblank,max=120"`
	Description string `json:"description" validate:"max=1000"`
	ProfileLink string `json:"profileLink" validate:"omitempty,url"`
	Course      string `json:"course" validate:"required,course"`
	HeadID      string `json:"organizationHeadID" validate:"required,objectid"`
}

type pictureInput struct {
	ProfileLink string `json:"profileLink" validate:"required,url"`
}

type seedInput struct {
	// Heads maps catalogue organization names to the user who heads them.
	// Organizations without an entry are headed by the caller.
	Heads       map[string]string `json:"heads" validate:"omitempty,dive,objectid"`
	ModeratorID string            `json:"moderatorID" validate:"omitempty,objectid"`
}

type seedResult struct {
	Organizations []models.Organization `json:"organizations"`
	Promoted      int                   `json:"promoted"`
}

type followResult struct {
	IsFollowed bool `json:"isFollowed"`
	Members    int  `json:"members"`
}

type deleteResult struct {
	ID            primitive.ObjectID `json:"id"`
	FollowsPulled int64              `json:"followsPulled"`
	PostsRemoved  int                `json:"postsRemoved"`
}
