package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type categoryDocument struct {
	ID   int64  `bson:"id"`
	Name string `bson:"name"`
}

type productDocument struct {
	ID          int64              `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	ImageURL    string             `bson:"img_url"`
	Categories  []categoryDocument `bson:"categories"`
}

// GetReference returns a lazy handle; the lookup runs on Resolve with the
// context Resolve is given.
func (r *ProductRepository) GetReference(_ context.Context, id int64) *domain.ProductReference {
	return domain.NewProductReference(id, r.load)
}

func (r *ProductRepository) load(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrEntityNotFound, id)
		}
		return nil, fmt.Errorf("%w: find product: %v", domain.ErrDatabase, err)
	}

	categories := make([]domain.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name})
	}
	return &domain.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		ImageURL:    doc.ImageURL,
		Categories:  categories,
	}, nil
}
