package category

import (
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("category name is required")

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

func (s *Service) Create(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrEmptyName
	}
	return s.repo.Create(name)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
