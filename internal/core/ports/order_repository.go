package ports

import (
	"context"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// OrderRepository persists order headers.
type OrderRepository interface {
	// FindByID returns domain.ErrOrderNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// Save assigns an id to a new order and stores its header. Items are
	// stored separately through OrderItemRepository.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// OrderItemRepository persists order lines.
type OrderItemRepository interface {
	SaveAll(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error)
}

// ProductRepository hands out product references.
type ProductRepository interface {
	// GetReference never touches storage; existence is checked when the
	// returned reference is resolved.
	GetReference(ctx context.Context, id int64) *domain.ProductReference
}

// Transactor runs fn inside a single atomic unit. Repositories called with
// the ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
