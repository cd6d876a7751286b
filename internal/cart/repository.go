package cart

import (
	"errors"
	"sync"

	"github.com/oladizz/storefront-backend/internal/product"
)

var (
	ErrNotFound = errors.New("user not found")
)

// Repository provides access to cart operations. Quantities are stored
// per product so duplicates are allowed and incremented.
type Repository interface {
	AddToCart(userID int, productID int, qty int, updatedAt string) ([]CartItem, error)
	GetCart(userID int) ([]CartItem, error)
	ClearCart(userID int, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios. Product
// details come from the seeded catalog.
type InMemoryRepository struct {
	mu       sync.RWMutex
	carts    map[int]map[int]int
	products map[int]product.Product
}

func NewInMemoryRepository(userIDs []int, catalog []product.Product) *InMemoryRepository {
	r := &InMemoryRepository{
		carts:    make(map[int]map[int]int, len(userIDs)),
		products: make(map[int]product.Product, len(catalog)),
	}
	for _, id := range userIDs {
		r.carts[id] = make(map[int]int)
	}
	for _, p := range catalog {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) AddToCart(userID int, productID int, qty int, updatedAt string) ([]CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	c[productID] += qty
	if c[productID] <= 0 {
		delete(c, productID)
	}
	return r.itemsLocked(c), nil
}

func (r *InMemoryRepository) GetCart(userID int) ([]CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.itemsLocked(c), nil
}

func (r *InMemoryRepository) ClearCart(userID int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return ErrNotFound
	}
	r.carts[userID] = make(map[int]int)
	return nil
}

func (r *InMemoryRepository) itemsLocked(c map[int]int) []CartItem {
	items := make([]CartItem, 0, len(c))
	for pid, q := range c {
		item := CartItem{Quantity: q}
		if p, ok := r.products[pid]; ok {
			item.Product = p
		} else {
			item.Product = product.Product{ID: pid}
		}
		items = append(items, item)
	}
	return items
}
