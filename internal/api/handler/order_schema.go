package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type orderItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
	Price     float64 `json:"price"      validate:"gte=0"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// ports/domain changes.

type clientResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type orderItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
	SubTotal  float64 `json:"sub_total"`
}

type orderLinks struct {
	Self string `json:"self"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Status    string              `json:"status"`
	Client    clientResponse      `json:"client"`
	Items     []orderItemResponse `json:"items"`
	Total     float64             `json:"total"`
	Links     orderLinks          `json:"_links"`
}
