// internal/app/features/notifications/types.go
package notifications

import (
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// noteView is a notification with sender and organization resolved.
type noteView struct {
	ID           primitive.ObjectID  `json:"id"`
	Sender       *models.UserSummary `json:"sender,omitempty"`
	Organization *models.OrgSummary  `json:"organization,omitempty"`
	Type         string              `json:"type"`
	Reference    models.ContentRef   `json:"reference"`
	Message      string              `json:"message"`
	IsRead       bool                `json:"isRead"`
	CreatedAt    time.Time           `json:"createdAt"`
}

type listResult struct {
	Notifications []noteView `json:"notifications"`
	NextCursor    string     `json:"nextCursor,omitempty"`
}

type countResult struct {
	Unread int64 `json:"unread"`
}

type readAllResult struct {
	Updated int64 `json:"updated"`
}
