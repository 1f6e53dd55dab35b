package models

// Requests for catalog HTTP endpoints. Defined in domain for consistency and reuse.

// ListItemsRequest binds list query params. A zero page or limit reads as
// absent and takes the default; the gte/lte rules catch out-of-range values.
type ListItemsRequest struct {
	Q     string `query:"q" json:"q"`
	Page  int    `query:"page" json:"page" default:"1" validate:"gte=1"`
	Limit int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=500"`
}

type GetItemRequest struct {
	ID int64 `param:"id" json:"id" validate:"required,gt=0"`
}

type CreateItemRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Category string  `json:"category" validate:"omitempty,max=100"`
	Price    float64 `json:"price" validate:"gte=0"`
}
