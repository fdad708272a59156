// internal/app/features/reportitems/types.go
package reportitems

import "time"

type createInput struct {
	ReportType      string    `json:"reportType" validate:"required,oneof=Lost Found"`
	ItemName        string    `json:"itemName" validate:"nonblank,max=120"`
	Description     string    `json:"description" validate:"nonblank,max=2000"`
	TurnOver        string    `json:"turnOver" validate:"max=200"`
	LocationDetails string    `json:"locationDetails" validate:"nonblank,max=200"`
	ContactDetails  string    `json:"contactDetails" validate:"nonblank,max=200"`
	DateLostOrFound time.Time `json:"dateLostOrFound" validate:"required"`
	Image           string    `json:"image" validate:"required,url"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=active claimed recovered"`
}

type witnessResult struct {
	Witnessed    bool `json:"witnessed"`
	WitnessCount int  `json:"witnessCount"`
}
