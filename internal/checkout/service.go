package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/oladizz/storefront-backend/internal/cart"
	"github.com/oladizz/storefront-backend/internal/charge"
	"github.com/oladizz/storefront-backend/internal/logger"
	"github.com/oladizz/storefront-backend/internal/order"
	"github.com/oladizz/storefront-backend/internal/user"
)

var (
	ErrChargeInProgress = errors.New("a charge is already in progress")
	ErrInvalidState     = errors.New("invalid checkout state for this operation")
	ErrOrderWrite       = errors.New("failed to place order")
)

// ChargeCreator is the charge-service boundary the controller calls.
type ChargeCreator interface {
	CreateCharge(ctx context.Context, items []cart.CartItem, subtotal float64, currencyCode string, metadata map[string]string) (string, error)
}

// Service drives the checkout status state machine:
// Idle -> AwaitingCharge -> AwaitingPayment -> Confirmed | Failed,
// with Cancelled reachable from AwaitingPayment. Transitions happen
// under each session's own lock; the provider call runs outside the
// lock with AwaitingCharge holding the session, and the order write is
// guarded so a duplicate success callback never creates a second order.
type Service struct {
	store   *sessionStore
	charges ChargeCreator
	carts   cart.ServiceInterface
	orders  order.Writer
	users   user.ServiceInterface
}

func NewService(charges ChargeCreator, carts cart.ServiceInterface, orders order.Writer, users user.ServiceInterface) *Service {
	return &Service{
		store:   newSessionStore(),
		charges: charges,
		carts:   carts,
		orders:  orders,
		users:   users,
	}
}

// Current returns the user's session, creating an Idle one if needed.
func (s *Service) Current(userID int) Session {
	e := s.store.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.sess
}

// SetShipping records the checkout form fields on the session.
func (s *Service) SetShipping(userID int, info ShippingInfo) Session {
	e := s.store.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Shipping = info
	return *e.sess
}

// StartCharge computes the cart subtotal and asks the charge service for
// a provider charge. The session sits in AwaitingCharge, with its lock
// released, for the duration of the provider call; a failed creation
// moves it to Failed so the user can retry, success retains the charge
// id and awaits payment.
func (s *Service) StartCharge(ctx context.Context, userID int, currencyCode string) (Session, error) {
	e := s.store.entry(userID)

	e.mu.Lock()
	sess := e.sess
	switch sess.State {
	case StateAwaitingCharge, StateAwaitingPayment:
		out := *sess
		e.mu.Unlock()
		return out, ErrChargeInProgress
	case StateConfirmed, StateFailed, StateCancelled:
		// a finished or abandoned attempt must not leak its charge id
		// into the new one
		sess = e.reset(true)
	}

	items, err := s.carts.GetCart(userID)
	if err != nil {
		out := *sess
		e.mu.Unlock()
		return out, err
	}
	if len(items) == 0 {
		out := *sess
		e.mu.Unlock()
		return out, charge.ErrEmptyCart
	}
	subtotal := cart.Subtotal(items)

	sess.State = StateAwaitingCharge
	sessionID := sess.ID
	e.mu.Unlock()

	metadata := map[string]string{
		"user_id":    strconv.Itoa(userID),
		"session_id": sessionID,
	}
	chargeID, err := s.charges.CreateCharge(ctx, items, subtotal, currencyCode, metadata)

	// only StartCharge replaces a session, and it refuses while one is
	// in AwaitingCharge, so sess is still the live session here
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		sess.State = StateFailed
		return *sess, err
	}

	sess.ChargeID = chargeID
	sess.Currency = currencyCode
	sess.State = StateAwaitingPayment
	return *sess, nil
}

// HandleStatus processes a lifecycle status callback from the embedded
// payment UI. A "success" in AwaitingPayment finalizes the order exactly
// once; repeats return the already-created order. An "error" fails the
// attempt. Anything else is logged and ignored.
func (s *Service) HandleStatus(ctx context.Context, userID int, statusName string) (Session, error) {
	e := s.store.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.sess
	switch statusName {
	case "success":
		return s.finalizeLocked(sess)
	case "error":
		if sess.State != StateAwaitingPayment {
			return *sess, ErrInvalidState
		}
		sess.State = StateFailed
		return *sess, nil
	default:
		logger.Info("ignoring payment status", "status", statusName, "userId", userID)
		return *sess, nil
	}
}

// Cancel aborts an awaited payment. The cart and shipping info are kept
// so the user can come back; no order is created and no provider call is
// needed (unconfirmed charges expire on the provider's side).
func (s *Service) Cancel(userID int) (Session, error) {
	e := s.store.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.sess
	if sess.State != StateAwaitingPayment {
		return *sess, ErrInvalidState
	}
	sess.State = StateCancelled
	return *sess, nil
}

func (s *Service) finalizeLocked(sess *Session) (Session, error) {
	// duplicate success callback: the order already exists
	if sess.State == StateConfirmed && sess.OrderID != "" {
		return *sess, nil
	}
	if sess.State != StateAwaitingPayment {
		return *sess, ErrInvalidState
	}
	if sess.orderPlaced {
		return *sess, nil
	}

	items, err := s.carts.GetCart(sess.UserID)
	if err != nil {
		return *sess, fmt.Errorf("%w: %v", ErrOrderWrite, err)
	}
	if len(items) == 0 {
		return *sess, fmt.Errorf("%w: cart is empty", ErrOrderWrite)
	}

	subtotal := cart.Subtotal(items)
	total := math.Round((subtotal+charge.ShippingSurcharge)*100) / 100

	orderItems := make([]order.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, order.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}

	ord := order.Order{
		UserID:           sess.UserID,
		UserName:         s.userName(sess),
		Items:            orderItems,
		Total:            total,
		Currency:         sess.Currency,
		Date:             time.Now().UTC(),
		Status:           order.StatusProcessing,
		ShippingAddress:  order.ShippingAddress(sess.Shipping),
		TrackingNumber:   trackingNumber(),
		CoinbaseChargeID: sess.ChargeID,
	}

	sess.orderPlaced = true
	created, err := s.orders.Create(ord)
	if err != nil {
		// release the guard so a retry can attempt the write again;
		// cart and shipping info stay untouched
		sess.orderPlaced = false
		logger.Error("order write failed", "err", err, "userId", sess.UserID, "chargeId", sess.ChargeID)
		return *sess, fmt.Errorf("%w: %v", ErrOrderWrite, err)
	}

	sess.OrderID = created.ID
	sess.State = StateConfirmed
	sess.Shipping = ShippingInfo{}

	if err := s.carts.ClearCart(sess.UserID); err != nil {
		logger.Warn("failed to clear cart after order", "err", err, "userId", sess.UserID)
	}

	logger.Info("order placed", "orderId", created.ID, "userId", sess.UserID, "chargeId", sess.ChargeID, "total", total)
	return *sess, nil
}

func (s *Service) userName(sess *Session) string {
	if sess.Shipping.FullName != "" {
		return sess.Shipping.FullName
	}
	if u, err := s.users.GetByID(sess.UserID); err == nil && u.Name != "" {
		return u.Name
	}
	return "N/A"
}

// trackingNumber derives a carrier-style tracking number from the
// current timestamp, e.g. "1Z0123456789".
func trackingNumber() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ms) > 10 {
		ms = ms[len(ms)-10:]
	}
	return "1Z" + ms
}
