package order

import "time"

// Order statuses. Only Processing is ever written by the checkout flow;
// the rest exist for fulfilment tooling downstream.
const (
	StatusProcessing     = "Processing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

// OrderItem snapshots a cart line at the moment the order is placed.
// The unit price is frozen here, not looked up live afterwards.
type OrderItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// ShippingAddress is the destination captured from checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// Order is the local record of a completed purchase. It is created only
// after a successful payment confirmation and never mutated by this flow.
type Order struct {
	ID               string          `json:"id"`
	UserID           int             `json:"userId"`
	UserName         string          `json:"userName"`
	Items            []OrderItem     `json:"items"`
	Total            float64         `json:"total"`
	Currency         string          `json:"currency"`
	Date             time.Time       `json:"date"`
	Status           string          `json:"status"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	TrackingNumber   string          `json:"trackingNumber"`
	CoinbaseChargeID string          `json:"coinbaseChargeId,omitempty"`
}
