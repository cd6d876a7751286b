package order

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (id, "userId", "userName", items, total, currency, date, status, "shippingAddress", "trackingNumber", "coinbaseChargeId")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	listOrdersByUserQuery = `
		SELECT id, "userId", "userName", items, total, currency, date, status, "shippingAddress", "trackingNumber", "coinbaseChargeId"
		FROM orders
		WHERE "userId" = $1
		ORDER BY date DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}

	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	addressJSON, err := json.Marshal(ord.ShippingAddress)
	if err != nil {
		return Order{}, err
	}

	_, err = r.db.Exec(insertOrderQuery,
		ord.ID, ord.UserID, ord.UserName, itemsJSON, ord.Total, ord.Currency,
		ord.Date, ord.Status, addressJSON, ord.TrackingNumber, nullable(ord.CoinbaseChargeID),
	)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(listOrdersByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var ord Order
		var itemsJSON, addressJSON []byte
		var chargeID sql.NullString
		var date time.Time
		if err := rows.Scan(&ord.ID, &ord.UserID, &ord.UserName, &itemsJSON, &ord.Total,
			&ord.Currency, &date, &ord.Status, &addressJSON, &ord.TrackingNumber, &chargeID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(addressJSON, &ord.ShippingAddress); err != nil {
			return nil, err
		}
		ord.Date = date
		ord.CoinbaseChargeID = chargeID.String
		out = append(out, ord)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
