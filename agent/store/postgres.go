package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresStore serves the same contract as CSVStore from a Postgres
// database, for deployments where the pipe-delimited files are replaced by a
// real record store.
type PostgresStore struct {
	db *bun.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping record database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FindClient(ctx context.Context, medicareNumber, dateOfBirth string) (*Client, error) {
	client := new(Client)
	err := s.db.NewSelect().
		Model(client).
		Where("medicare_number = ?", medicareNumber).
		Where("date_of_birth = ?", dateOfBirth).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query client: %w", err)
	}
	return client, nil
}

func (s *PostgresStore) FindPrescription(ctx context.Context, prescriptionID int64, clientID string) (*Prescription, error) {
	prescription := new(Prescription)
	err := s.db.NewSelect().
		Model(prescription).
		Where("prescriptionid = ?", prescriptionID).
		Where("clientid = ?", clientID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query prescription: %w", err)
	}
	return prescription, nil
}

func (s *PostgresStore) FindOrder(ctx context.Context, orderID int64) (*Order, error) {
	order := new(Order)
	err := s.db.NewSelect().
		Model(order).
		Where("orderid = ?", orderID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return order, nil
}

// AppendOrder keeps the count+1 id assignment of the file-backed store. The
// count-then-insert pair is not transactional; this matches the single-writer
// assumption of the engine and would need a sequence under concurrent writers.
func (s *PostgresStore) AppendOrder(ctx context.Context, order Order) (*Order, error) {
	count, err := s.db.NewSelect().Model((*Order)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	order.OrderID = int64(count) + 1
	if _, err := s.db.NewInsert().Model(&order).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &order, nil
}
