package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-services/internal/models"
)

// ErrProductNotFound is returned when no product matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the operations the registry exposes over its products.
//
// Implementations keep products ordered by id and assign new ids as the last id plus one
// (or 1 when empty). Every method must be atomic with respect to the others.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Create(ctx context.Context, name string, price float64) (models.Product, error)
	Update(ctx context.Context, id int, patch models.ProductPatch) (models.Product, error)
	Delete(ctx context.Context, id int) error
}

// SeedProducts returns the records a fresh registry starts with.
func SeedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Laptop", Price: 899},
		{ID: 2, Name: "Television", Price: 599},
		{ID: 3, Name: "Tablet", Price: 499},
	}
}
