package webhook

import (
	"sync"
	"time"
)

// Confirmation is the audit record of a verified charge:confirmed event.
// It references the charge id for later reconciliation against orders;
// orders themselves are never touched from the webhook path.
type Confirmation struct {
	EventID        string    `json:"eventId"`
	ChargeID       string    `json:"chargeId"`
	Network        string    `json:"network"`
	CryptoAmount   string    `json:"cryptoAmount,omitempty"`
	CryptoCurrency string    `json:"cryptoCurrency,omitempty"`
	ReceivedAt     time.Time `json:"receivedAt"`
}

// Repository stores confirmations keyed by event id. Record reports
// whether the confirmation was newly stored, so a redelivered webhook is
// recorded once.
type Repository interface {
	Record(conf Confirmation) (bool, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	events map[string]Confirmation
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{events: make(map[string]Confirmation)}
}

func (r *InMemoryRepository) Record(conf Confirmation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[conf.EventID]; ok {
		return false, nil
	}
	r.events[conf.EventID] = conf
	return true, nil
}

// All returns every recorded confirmation; test helper.
func (r *InMemoryRepository) All() []Confirmation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Confirmation, 0, len(r.events))
	for _, c := range r.events {
		out = append(out, c)
	}
	return out
}
