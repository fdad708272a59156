package feedqueries

import (
	"encoding/json"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        primitive.ObjectID  `json:"id"`
	User      *models.UserSummary `json:"user"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt *time.Time          `json:"updatedAt,omitempty"`
}

// WitnessView is a witness with the vouching user resolved.
type WitnessView struct {
	User      *models.UserSummary `json:"user"`
	VouchTime time.Time           `json:"vouchTime"`
}

// AcademicView is an academic post as rendered in a feed.
type AcademicView struct {
	FeedType     string              `json:"feedType"`
	ID           primitive.ObjectID  `json:"id"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	Image        string              `json:"image"`
	PostedBy     *models.UserSummary `json:"postedBy"`
	Organization *models.OrgSummary  `json:"organization"`
	Comments     []CommentView       `json:"comments"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// EventView is an event as rendered in a feed.
type EventView struct {
	FeedType     string              `json:"feedType"`
	ID           primitive.ObjectID  `json:"id"`
	EventName    string              `json:"eventName"`
	Location     string              `json:"location"`
	Course       string              `json:"course"`
	OpenTo       string              `json:"openTo"`
	StartDate    time.Time           `json:"startDate"`
	EndDate      time.Time           `json:"endDate"`
	Image        string              `json:"image"`
	PostedBy     *models.UserSummary `json:"postedBy"`
	Organization *models.OrgSummary  `json:"organization"`
	Comments     []CommentView       `json:"comments"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ReportView is a lost-or-found report as rendered in a feed.
type ReportView struct {
	FeedType        string              `json:"feedType"`
	ID              primitive.ObjectID  `json:"id"`
	ReportType      string              `json:"reportType"`
	ItemName        string              `json:"itemName"`
	Description     string              `json:"description"`
	TurnOver        string              `json:"turnOver"`
	LocationDetails string              `json:"locationDetails"`
	ContactDetails  string              `json:"contactDetails"`
	DateLostOrFound time.Time           `json:"dateLostOrFound"`
	Image           string              `json:"image"`
	Status          string              `json:"status"`
	PostedBy        *models.UserSummary `json:"postedBy"`
	Witnesses       []WitnessView       `json:"witnesses"`
	Comments        []CommentView       `json:"comments"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// FeedItem is one entry of a merged feed. Exactly one of Academic, Event
// and Report is set, matching Kind.
type FeedItem struct {
	Kind      models.ContentKind
	CreatedAt time.Time

	Academic *AcademicView
	Event    *EventView
	Report   *ReportView
}

// ID returns the id of the wrapped item.
func (it FeedItem) ID() primitive.ObjectID {
	switch it.Kind {
	case models.KindAcademic:
		return it.Academic.ID
	case models.KindEvent:
		return it.Event.ID
	case models.KindReport:
		return it.Report.ID
	}
	return primitive.NilObjectID
}

// Ref returns the ContentRef of the wrapped item.
func (it FeedItem) Ref() models.ContentRef {
	return models.Ref(it.Kind, it.ID())
}

// MarshalJSON flattens the active variant; its feedType field tells
// clients which renderer to use.
func (it FeedItem) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case models.KindAcademic:
		return json.Marshal(it.Academic)
	case models.KindEvent:
		return json.Marshal(it.Event)
	case models.KindReport:
		return json.Marshal(it.Report)
	}
	return []byte("null"), nil
}
