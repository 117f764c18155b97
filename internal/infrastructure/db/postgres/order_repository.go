package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	err := conn(ctx, r.db).
		Preload("Client").
		Preload("Items.Product").
		First(&m, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: find order: %v", domain.ErrDatabase, err)
	}
	return m.toDomain(), nil
}

// Save inserts the order header only; items go through OrderItemRepository.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m := orderModel{
		Moment:   order.CreatedAt.UTC(),
		Status:   string(order.Status),
		ClientID: order.ClientID,
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, translateWriteError("insert order", err)
	}

	saved := *order
	saved.ID = m.ID
	return &saved, nil
}

func (m orderModel) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, domain.OrderItem{
			OrderID:   m.ID,
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			ImageURL:  it.Product.ImgURL,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return &domain.Order{
		ID:        m.ID,
		CreatedAt: m.Moment,
		Status:    domain.OrderStatus(m.Status),
		ClientID:  m.ClientID,
		Client:    domain.ClientSummary{ID: m.Client.ID, Name: m.Client.Name},
		Items:     items,
	}
}

type OrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) *OrderItemRepository {
	return &OrderItemRepository{db: db}
}

// SaveAll inserts items in one statement. A product repeated within an order
// violates the composite key and surfaces as domain.ErrConflict.
func (r *OrderItemRepository) SaveAll(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	rows := make([]orderItemModel, 0, len(items))
	for _, it := range items {
		rows = append(rows, orderItemModel{
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, translateWriteError("insert order items", err)
	}
	return items, nil
}

func translateWriteError(op string, err error) error {
	if isUniqueViolation(err) || isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrDatabase, op, err)
}
