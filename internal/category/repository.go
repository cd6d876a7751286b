package category

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("category not found")

type Repository interface {
	List() ([]Category, error)
	Create(name string) (Category, error)
	Delete(id int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	categories []Category
	nextID     int
}

func NewInMemoryRepository(seed []string) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, name := range seed {
		r.categories = append(r.categories, Category{ID: r.nextID, Name: name})
		r.nextID++
	}
	return r
}

func (r *InMemoryRepository) List() ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *InMemoryRepository) Create(name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Category{ID: r.nextID, Name: name}
	r.nextID++
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.categories {
		if c.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
