package order

// Writer is the order-store boundary the checkout flow writes through.
type Writer interface {
	Create(ord Order) (Order, error)
}

// Service provides business logic for orders.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ord Order) (Order, error) {
	if len(ord.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	return s.repo.Create(ord)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

var _ Writer = (*Service)(nil)
