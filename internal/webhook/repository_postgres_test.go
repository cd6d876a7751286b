package webhook

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	conf := Confirmation{
		EventID:        "evt_1",
		ChargeID:       "charge_abc",
		Network:        "base",
		CryptoAmount:   "0.031",
		CryptoCurrency: "ETH",
		ReceivedAt:     time.Now().UTC(),
	}

	// first delivery inserts a row
	mock.ExpectExec("INSERT INTO payment_events").WillReturnResult(sqlmock.NewResult(0, 1))
	fresh, err := repo.Record(conf)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !fresh {
		t.Fatal("first delivery should be recorded as fresh")
	}

	// redelivery conflicts on event_id and affects no rows
	mock.ExpectExec("INSERT INTO payment_events").WillReturnResult(sqlmock.NewResult(0, 0))
	fresh, err = repo.Record(conf)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if fresh {
		t.Fatal("redelivery must not be reported as fresh")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
