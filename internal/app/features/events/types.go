// internal/app/features/events/types.go
package events

import "time"

type createInput struct {
	OrganizationID string    `json:"organization" validate:"required,objectid"`
	EventName      string    `json:"eventName" validate:"nonblank,max=200"`
	Location       string    `json:"location" validate:"nonblank,max=200"`
	Course         string    `json:"course" validate:"required,course"`
	OpenTo         string    `json:"openTo" validate:"nonblank,max=200"`
	StartDate      time.Time `json:"startDate" validate:"required"`
	EndDate        time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Image          string    `json:"image" validate:"required,url"`
}

type updateInput struct {
	EventName *string    `json:"eventName" validate:"omitnil,nonblank,max=200"`
	Location  *string    `json:"location" validate:"omitnil,nonblank,max=200"`
	Course    *string    `json:"course" validate:"omitnil,course"`
	OpenTo    *string    `json:"openTo" validate:"omitnil,nonblank,max=200"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Image     *string    `json:"image" validate:"omitnil,url"`
}

type subscriptionResult struct {
	IsSubscribed bool `json:"isSubscribed"`
}
