package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

// OrderRepositories groups the stores OrderService writes through.
type OrderRepositories struct {
	Orders   ports.OrderRepository
	Items    ports.OrderItemRepository
	Products ports.ProductRepository
	Tx       ports.Transactor
}

type OrderService struct {
	orders   ports.OrderRepository
	items    ports.OrderItemRepository
	products ports.ProductRepository
	tx       ports.Transactor
	auth     ports.Authenticator
	guard    ports.AccessGuard
	now      func() time.Time
	logger   zerolog.Logger
}

func NewOrderService(repos OrderRepositories, auth ports.Authenticator, guard ports.AccessGuard, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   repos.Orders,
		items:    repos.Items,
		products: repos.Products,
		tx:       repos.Tx,
		auth:     auth,
		guard:    guard,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// FindByID loads an order and then checks that the caller owns it or is an
// admin. A missing order is reported before any authorization decision.
func (s *OrderService) FindByID(ctx context.Context, id int64) (*ports.OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.ValidateSelfOrAdmin(ctx, order.ClientID); err != nil {
		return nil, err
	}
	return toOrderView(order), nil
}

// Insert creates an order owned by the caller. Items are assembled in request
// order and each product is dereferenced as its item is built; the first
// missing product aborts the whole insert and nothing is stored.
func (s *OrderService) Insert(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderView, error) {
	actor, err := s.auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidOrder)
	}

	order := &domain.Order{
		CreatedAt: s.now(),
		Status:    domain.DefaultOrderStatus,
		ClientID:  actor.ID,
		Client:    domain.ClientSummary{ID: actor.ID, Name: actor.Name},
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for i, in := range input.Items {
			ref := s.products.GetReference(ctx, in.ProductID)
			product, err := ref.Resolve(ctx)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			order.Items = append(order.Items, domain.OrderItem{
				ProductID: ref.ID(),
				Name:      product.Name,
				ImageURL:  product.ImageURL,
				Quantity:  in.Quantity,
				UnitPrice: in.Price,
			})
		}

		saved, err := s.orders.Save(ctx, order)
		if err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = saved.ID
		}
		items, err := s.items.SaveAll(ctx, order.Items)
		if err != nil {
			return fmt.Errorf("save order items: %w", err)
		}
		order.ID = saved.ID
		order.Items = items
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("client_id", actor.ID).Msg("order insert aborted")
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("client_id", order.ClientID).
		Int("items", len(order.Items)).
		Msg("order created")

	return toOrderView(order), nil
}

func toOrderView(o *domain.Order) *ports.OrderView {
	items := make([]ports.OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ports.OrderItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
			SubTotal:  it.SubTotal(),
		})
	}
	return &ports.OrderView{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    string(o.Status),
		Client:    ports.ClientView{ID: o.Client.ID, Name: o.Client.Name},
		Items:     items,
		Total:     o.Total(),
	}
}
