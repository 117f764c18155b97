package domain

import (
	"context"
	"sync"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Categories  []Category
}

// ProductLoader fetches a product by id. It must return an error wrapping
// ErrEntityNotFound when the id does not exist.
type ProductLoader func(ctx context.Context, id int64) (*Product, error)

// ProductReference is a handle to a product whose existence is only checked
// when Resolve is called. Resolve loads at most once.
type ProductReference struct {
	id   int64
	load ProductLoader

	once    sync.Once
	product *Product
	err     error
}

func NewProductReference(id int64, load ProductLoader) *ProductReference {
	return &ProductReference{id: id, load: load}
}

func (r *ProductReference) ID() int64 { return r.id }

// Resolve dereferences the handle.
func (r *ProductReference) Resolve(ctx context.Context) (*Product, error) {
	r.once.Do(func() {
		r.product, r.err = r.load(ctx, r.id)
	})
	return r.product, r.err
}
