package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/product-services/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a repository holding the given products, in order.
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	products := make([]models.Product, len(seed))
	copy(products, seed)
	return &InMemoryProductRepository{products: products}
}

// List returns the requested page of products matching the filter.
func (r *InMemoryProductRepository) List(_ context.Context, pf ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	start, end := Window(len(filtered), pf.Page, pf.Limit)
	return filtered[start:end], nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// Create appends a new product whose id follows the last one in the list.
func (r *InMemoryProductRepository) Create(_ context.Context, name string, price float64) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := 1
	if n := len(r.products); n > 0 {
		id = r.products[n-1].ID + 1
	}

	product := models.Product{ID: id, Name: name, Price: price}
	r.products = append(r.products, product)
	return product, nil
}

// Update applies the patch to the product in place.
func (r *InMemoryProductRepository) Update(_ context.Context, id int, patch models.ProductPatch) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}

	if patch.Name != nil {
		r.products[i].Name = *patch.Name
	}
	if patch.Price != nil {
		r.products[i].Price = *patch.Price
	}
	return r.products[i], nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

// Reset replaces the whole list. Handy for tests.
func (r *InMemoryProductRepository) Reset(products ...models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make([]models.Product, len(products))
	copy(r.products, products)
}

// Len reports how many products are stored.
func (r *InMemoryProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *InMemoryProductRepository) indexOf(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
