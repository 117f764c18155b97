package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// OrderItemRepository appends items into their order document.
type OrderItemRepository struct {
	col *mongo.Collection
}

func NewOrderItemRepository(db *mongo.Database) *OrderItemRepository {
	return &OrderItemRepository{col: db.Collection(collectionOrders)}
}

// SaveAll pushes items grouped by order id, one update per order.
func (r *OrderItemRepository) SaveAll(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	byOrder := make(map[int64][]orderItemDocument)
	ids := make([]int64, 0, 1)
	for _, it := range items {
		if _, seen := byOrder[it.OrderID]; !seen {
			ids = append(ids, it.OrderID)
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], orderItemDocument{
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}

	for _, orderID := range ids {
		res, err := r.col.UpdateByID(ctx, orderID, bson.M{
			"$push": bson.M{"items": bson.M{"$each": byOrder[orderID]}},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: save items: %v", domain.ErrDatabase, err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: items for order %d", domain.ErrOrderNotFound, orderID)
		}
	}
	return items, nil
}
