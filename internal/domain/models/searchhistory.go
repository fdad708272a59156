// internal/domain/models/searchhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Search contexts.
const (
	SearchGlobal    = "global"
	SearchEvent     = "event"
	SearchAcademic  = "academic"
	SearchLostFound = "lostfound"
)

// SearchEntry is one remembered query. (user, query, context) is unique;
// repeating a search bumps UpdatedAt.
type SearchEntry struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user"`
	Query     string             `bson:"query" json:"queryText"`
	Context   string             `bson:"context" json:"searchContext"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// IsValidSearchContext checks s against the known contexts.
func IsValidSearchContext(s string) bool {
	switch s {
	case SearchGlobal, SearchEvent, SearchAcademic, SearchLostFound:
		return true
	}
	return false
}
