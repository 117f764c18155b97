package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetReference returns a lazy handle; the row is read on Resolve, inside
// whatever transaction the resolving ctx carries.
func (r *ProductRepository) GetReference(_ context.Context, id int64) *domain.ProductReference {
	return domain.NewProductReference(id, r.load)
}

func (r *ProductRepository) load(ctx context.Context, id int64) (*domain.Product, error) {
	var m productModel
	if err := conn(ctx, r.db).Preload("Categories").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrEntityNotFound, id)
		}
		return nil, fmt.Errorf("%w: find product: %v", domain.ErrDatabase, err)
	}
	return m.toDomain(), nil
}

func (m productModel) toDomain() *domain.Product {
	categories := make([]domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name})
	}
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImgURL,
		Categories:  categories,
	}
}
