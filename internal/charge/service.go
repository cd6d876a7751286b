package charge

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oladizz/storefront-backend/internal/cart"
	"github.com/oladizz/storefront-backend/internal/currency"
	"github.com/oladizz/storefront-backend/internal/logger"
)

// ShippingSurcharge is the flat shipping cost added to every order.
const ShippingSurcharge = 5.99

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// Service computes the final charge amount for a cart and asks the
// provider to create a matching charge. Provider failures are logged and
// returned as errors so the caller can offer a retry instead of crashing.
type Service struct {
	client *Client
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Amount formats subtotal plus the shipping surcharge with two decimals,
// which is the exact string sent to the provider.
func Amount(subtotal float64) string {
	return strconv.FormatFloat(subtotal+ShippingSurcharge, 'f', 2, 64)
}

func (s *Service) CreateCharge(ctx context.Context, items []cart.CartItem, subtotal float64, currencyCode string, metadata map[string]string) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	if !currency.Supported(currencyCode) {
		return "", currency.ErrUnsupported
	}

	amount := Amount(subtotal)
	name := "Your Order from OLADIZZ"
	description := fmt.Sprintf("Order of %d items", len(items))

	id, err := s.client.Create(ctx, name, description, amount, currencyCode, metadata)
	if err != nil {
		logger.Warn("failed to create charge", "err", err, "amount", amount, "currency", currencyCode)
		return "", err
	}

	logger.Info("charge created", "chargeId", id, "amount", amount, "currency", currencyCode)
	return id, nil
}
