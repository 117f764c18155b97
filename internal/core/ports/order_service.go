package ports

import (
	"context"
	"time"
)

// OrderItemInput is one requested line. Price is the unit price quoted to
// the client and is stored as-is.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
	Price     float64
}

// CreateOrderInput carries the items of a new order. The owner is always the
// authenticated caller.
type CreateOrderInput struct {
	Items []OrderItemInput
}

// OrderItemView is a line of OrderView.
type OrderItemView struct {
	ProductID int64
	Name      string
	Price     float64
	Quantity  int
	ImageURL  string
	SubTotal  float64
}

// ClientView is the owner as shown on an order.
type ClientView struct {
	ID   int64
	Name string
}

// OrderView is the read projection returned by OrderService.
type OrderView struct {
	ID        int64
	CreatedAt time.Time
	Status    string
	Client    ClientView
	Items     []OrderItemView
	Total     float64
}

// OrderService defines the order use cases.
type OrderService interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
	Insert(ctx context.Context, input CreateOrderInput) (*OrderView, error)
}

// IdempotencyStore ties a client-supplied key to the order it created.
type IdempotencyStore interface {
	// Reserve claims key for a new order. When the key is already claimed,
	// reserved is false and orderID is the order it created, or 0 while
	// that creation is still in flight.
	Reserve(ctx context.Context, key string) (reserved bool, orderID int64, err error)
	// Complete records the order created under a reserved key.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops a reservation whose order was not created.
	Release(ctx context.Context, key string) error
}
