package webhook

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const insertConfirmationQuery = `
	INSERT INTO payment_events (event_id, charge_id, network, crypto_amount, crypto_currency, received_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (event_id) DO NOTHING
`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(conf Confirmation) (bool, error) {
	res, err := r.db.Exec(insertConfirmationQuery,
		conf.EventID, conf.ChargeID, conf.Network, conf.CryptoAmount, conf.CryptoCurrency, conf.ReceivedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*InMemoryRepository)(nil)
