package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/lib/pq"
	"github.com/oladizz/storefront-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartProductsQuery = `
		SELECT product_id, name, description, price, category, image_url, details, materials, care_instructions, dimensions
		FROM product
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddToCart(userID int, productID int, qty int, updatedAt string) ([]CartItem, error) {
	m, err := r.loadCartMap(userID)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(productID)
	newQty := m[key] + qty
	if newQty <= 0 {
		delete(m, key)
	} else {
		m[key] = newQty
	}

	updatedCart, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(`UPDATE users SET cart = $1 WHERE "userId" = $2`, string(updatedCart), userID); err != nil {
		return nil, err
	}

	return r.items(m)
}

func (r *PostgresRepository) GetCart(userID int) ([]CartItem, error) {
	m, err := r.loadCartMap(userID)
	if err != nil {
		return nil, err
	}
	return r.items(m)
}

func (r *PostgresRepository) ClearCart(userID int, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE users SET cart = '{}' WHERE "userId" = $1`, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) loadCartMap(userID int) (map[string]int, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(`SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m := make(map[string]int)
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *PostgresRepository) items(m map[string]int) ([]CartItem, error) {
	ids := make([]int, 0, len(m))
	for k := range m {
		if pid, err := strconv.Atoi(k); err == nil {
			ids = append(ids, pid)
		}
	}
	if len(ids) == 0 {
		return []CartItem{}, nil
	}

	rows, err := r.db.Query(getCartProductsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CartItem, 0, len(ids))
	for rows.Next() {
		var p product.Product
		var details pq.StringArray
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL,
			&details, &p.Materials, &p.CareInstructions, &p.Dimensions); err != nil {
			return nil, err
		}
		p.Details = []string(details)
		out = append(out, CartItem{Product: p, Quantity: m[strconv.Itoa(p.ID)]})
	}
	return out, rows.Err()
}
