// internal/app/features/academics/types.go
package academics

type createInput struct {
	OrganizationID string `json:"organization" validate:"required,objectid"`
	Title          string `json:"title" validate:"nonblank,max=200"`
	Content        string `json:"content" validate:"nonblank,max=20000"`
	Image          string `json:"image" validate:"required,url"`
}

type updateInput struct {
	Title   *string `json:"title" validate:"omitnil,nonblank,max=200"`
	Content *string `json:"content" validate:"omitnil,nonblank,max=20000"`
	Image   *string `json:"image" validate:"omitnil,url"`
}
