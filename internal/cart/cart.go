package cart

import (
	"math"

	"github.com/oladizz/storefront-backend/internal/product"
)

// CartItem is a product together with the quantity the user put in the cart.
type CartItem struct {
	product.Product
	Quantity int `json:"quantity"`
}

// Subtotal sums the live product prices over the cart, rounded to cents.
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}
