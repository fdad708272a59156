// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report types.
const (
	ReportLost  = "Lost"
	ReportFound = "Found"
)

// Report statuses.
const (
	ReportStatusActive    = "active"
	ReportStatusClaimed   = "claimed"
	ReportStatusRecovered = "recovered"
)

// ReportItem is a lost-or-found report. Any signed-in user may file one.
type ReportItem struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	ReportType      string             `bson:"report_type" json:"reportType"` // Lost | Found
	ItemName        string             `bson:"item_name" json:"itemName"`
	Description     string             `bson:"description" json:"description"`
	TurnOver        string             `bson:"turn_over" json:"turnOver"`
	LocationDetails string             `bson:"location_details" json:"locationDetails"`
	ContactDetails  string             `bson:"contact_details" json:"contactDetails"`
	DateLostOrFound time.Time          `bson:"date_lost_or_found" json:"dateLostOrFound"`
	Image           string             `bson:"image" json:"image"`
	PostedBy        primitive.ObjectID `bson:"posted_by" json:"postedBy"`
	Status          string             `bson:"status" json:"status"` // active | claimed | recovered
	Witnesses       []Witness          `bson:"witnesses" json:"witnesses"`
	Comments        []Comment          `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidReportStatus checks s against the three report statuses.
func IsValidReportStatus(s string) bool {
	switch s {
	case ReportStatusActive, ReportStatusClaimed, ReportStatusRecovered:
		return true
	}
	return false
}
