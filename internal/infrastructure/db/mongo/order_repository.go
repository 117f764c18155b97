package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// OrderRepository stores orders as single documents with their items
// embedded. Ids come from a counter document so they stay numeric.
type OrderRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		col:      db.Collection(collectionOrders),
		counters: db.Collection(collectionCounters),
	}
}

type orderItemDocument struct {
	ProductID int64   `bson:"product_id"`
	Name      string  `bson:"name"`
	ImageURL  string  `bson:"img_url"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
}

type orderDocument struct {
	ID         int64               `bson:"_id"`
	Moment     time.Time           `bson:"moment"`
	Status     string              `bson:"status"`
	ClientID   int64               `bson:"client_id"`
	ClientName string              `bson:"client_name"`
	Items      []orderItemDocument `bson:"items"`
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: find order: %v", domain.ErrDatabase, err)
	}
	return doc.toDomain(), nil
}

// Save allocates the next order id and inserts the header with an empty
// item list.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := orderDocument{
		ID:         id,
		Moment:     order.CreatedAt.UTC(),
		Status:     string(order.Status),
		ClientID:   order.ClientID,
		ClientName: order.Client.Name,
		Items:      []orderItemDocument{},
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: order %d", domain.ErrConflict, id)
		}
		return nil, fmt.Errorf("%w: insert order: %v", domain.ErrDatabase, err)
	}

	saved := *order
	saved.ID = id
	return &saved, nil
}

func (r *OrderRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionOrders},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("%w: next order id: %v", domain.ErrDatabase, err)
	}
	return counter.Seq, nil
}

func (d orderDocument) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{
			OrderID:   d.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return &domain.Order{
		ID:        d.ID,
		CreatedAt: d.Moment,
		Status:    domain.OrderStatus(d.Status),
		ClientID:  d.ClientID,
		Client:    domain.ClientSummary{ID: d.ClientID, Name: d.ClientName},
		Items:     items,
	}
}
