package checkout

import (
	"sync"

	"github.com/google/uuid"
)

// State is the checkout session's payment status. Confirmed, Failed and
// Cancelled are terminal for a payment attempt; Failed and Cancelled
// allow a fresh charge to be started.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingCharge  State = "awaiting_charge"
	StateAwaitingPayment State = "awaiting_payment"
	StateConfirmed       State = "confirmed"
	StateFailed          State = "failed"
	StateCancelled       State = "cancelled"
)

// ShippingInfo holds the checkout form fields for one session. It is
// reset to empty only after a successful order write.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// Session tracks one user's in-progress checkout. The charge id is
// retained from charge creation onwards as the correlation key against
// the provider and the order store.
type Session struct {
	ID       string       `json:"sessionId"`
	UserID   int          `json:"userId"`
	State    State        `json:"state"`
	ChargeID string       `json:"chargeId,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Shipping ShippingInfo `json:"shipping"`
	OrderID  string       `json:"orderId,omitempty"`

	// orderPlaced guards the order write so duplicate success callbacks
	// cannot create a second order for the same session.
	orderPlaced bool
}

// sessionEntry pairs one user's session with its own lock, so a slow
// provider call in one session never blocks another user's checkout.
type sessionEntry struct {
	mu   sync.Mutex
	sess *Session
}

// reset replaces the entry's session with a fresh Idle one, preserving
// the shipping info the user already typed. Caller holds e.mu.
func (e *sessionEntry) reset(keepShipping bool) *Session {
	old := e.sess
	sess := &Session{ID: uuid.NewString(), UserID: old.UserID, State: StateIdle}
	if keepShipping {
		sess.Shipping = old.Shipping
	}
	e.sess = sess
	return sess
}

// sessionStore keeps one active session per user. Sessions are scoped to
// the process, mirroring the browser-session scope of the client flow.
type sessionStore struct {
	mu      sync.Mutex
	entries map[int]*sessionEntry
}

func newSessionStore() *sessionStore {
	return &sessionStore{entries: make(map[int]*sessionEntry)}
}

// entry returns the user's session entry, creating an Idle one if
// needed. The store lock covers only the map lookup.
func (st *sessionStore) entry(userID int) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[userID]
	if !ok {
		e = &sessionEntry{sess: &Session{ID: uuid.NewString(), UserID: userID, State: StateIdle}}
		st.entries[userID] = e
	}
	return e
}
