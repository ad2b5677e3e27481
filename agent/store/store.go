package store

import (
	"context"
	"errors"
)

// Not-found is a normal lookup outcome, not a fault. Callers branch with
// errors.Is and turn these into user-facing messages.
var (
	ErrClientNotFound       = errors.New("client not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrOrderNotFound        = errors.New("order not found")
)

// Store is the record store contract used by the order workflow engine.
//
// AppendOrder is the only mutating operation: it assigns the next sequential
// order id (current order count + 1), appends the record, and durably
// persists the order set before returning. Id assignment is not atomic with
// respect to concurrent writers; the engine is single-writer and a
// multi-session deployment would need a transactional commit here.
type Store interface {
	FindClient(ctx context.Context, medicareNumber, dateOfBirth string) (*Client, error)
	FindPrescription(ctx context.Context, prescriptionID int64, clientID string) (*Prescription, error)
	FindOrder(ctx context.Context, orderID int64) (*Order, error)
	AppendOrder(ctx context.Context, order Order) (*Order, error)
}
