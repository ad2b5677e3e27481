// Package workflow drives the two order workflows: create a pickup order and
// check an order's status. Each run is one pass through collect, validate,
// then commit or report; any validation miss fails the run without mutation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"pharmassist/agent/contract"
	"pharmassist/agent/store"
	logx "pharmassist/pkg/logger"
)

// ErrUnknownOrderState marks a persisted order whose state code is outside
// the known set. That is corrupt data, not a user mistake, so it is raised
// rather than mapped to a guessed status text.
var ErrUnknownOrderState = errors.New("unknown order state")

const (
	msgInfoHeader = "In order to process your request, we need the following information:"

	msgClientNotFound = "The file could not be found in the system. Please try a different medicare number."
	msgRxNotFound     = "The prescription could not be found with this prescription number."
)

type Engine struct {
	store store.Store
	log   zerolog.Logger
}

func New(recordStore store.Store) (*Engine, error) {
	if recordStore == nil {
		return nil, errors.New("record store is required")
	}
	return &Engine{
		store: recordStore,
		log:   logx.Component("workflow"),
	}, nil
}

// collected holds the raw answers of the collect phase. Ids stay strings
// until validation, where a non-numeric id becomes a not-found outcome.
type collected struct {
	identity           contract.Identity
	prescriptionNumber string
	orderID            string
}

type requestKind int

const (
	requestNewOrder requestKind = iota
	requestOrderStatus
)

// NewOrder runs the create-order workflow. The returned string is the
// user-facing outcome, for validation failures as well as success; the error
// is reserved for collaborator faults (console, persistence).
func (e *Engine) NewOrder(ctx context.Context, prompter contract.Prompter, sess *Session) (string, error) {
	info, err := e.collectInfo(prompter, sess, requestNewOrder)
	if err != nil {
		return "", err
	}

	if _, err := e.validateInfo(ctx, info, requestNewOrder); err != nil {
		if msg, ok := domainMessage(err, info); ok {
			e.log.Debug().Err(err).Msg("order validation failed")
			return msg, nil
		}
		return "", err
	}

	// validateInfo parsed this successfully
	prescriptionID, _ := parseID(info.prescriptionNumber)

	committed, err := e.store.AppendOrder(ctx, store.Order{
		MedicareNumber: info.identity.MedicareNumber,
		PrescriptionID: prescriptionID,
		State:          store.OrderStatePending,
	})
	if err != nil {
		return "", fmt.Errorf("commit order: %w", err)
	}

	sess.CacheIdentity(info.identity)
	e.log.Info().Int64("order_id", committed.OrderID).Msg("order created")

	return fmt.Sprintf("Order Successful! The order number is: %d", committed.OrderID), nil
}

// OrderStatus runs the status workflow and reports the stored order state as
// a human-readable status.
func (e *Engine) OrderStatus(ctx context.Context, prompter contract.Prompter, sess *Session) (string, error) {
	info, err := e.collectInfo(prompter, sess, requestOrderStatus)
	if err != nil {
		return "", err
	}

	order, err := e.validateInfo(ctx, info, requestOrderStatus)
	if err != nil {
		if msg, ok := domainMessage(err, info); ok {
			e.log.Debug().Err(err).Msg("status validation failed")
			return msg, nil
		}
		return "", err
	}

	text, err := StatusText(order.State)
	if err != nil {
		return "", fmt.Errorf("order %d: %w", order.OrderID, err)
	}
	return text, nil
}

// collectInfo gathers the identity pair and the order-specific field. A
// previously validated identity is reused; the third field is always asked.
func (e *Engine) collectInfo(prompter contract.Prompter, sess *Session, kind requestKind) (collected, error) {
	prompter.Say(msgInfoHeader)

	info := collected{}
	if id, ok := sess.Identity(); ok {
		info.identity = id
	} else {
		medicare, err := prompter.Ask("1. Medicare number: ")
		if err != nil {
			return collected{}, err
		}
		dob, err := prompter.Ask("2. Date of birth (yyyy-mm-dd): ")
		if err != nil {
			return collected{}, err
		}
		info.identity = contract.Identity{
			MedicareNumber: strings.TrimSpace(medicare),
			DateOfBirth:    strings.TrimSpace(dob),
		}
	}

	switch kind {
	case requestNewOrder:
		number, err := prompter.Ask("3. Prescription number: ")
		if err != nil {
			return collected{}, err
		}
		info.prescriptionNumber = strings.TrimSpace(number)
	case requestOrderStatus:
		number, err := prompter.Ask("3. Order number: ")
		if err != nil {
			return collected{}, err
		}
		info.orderID = strings.TrimSpace(number)
	}
	return info, nil
}

// validateInfo re-derives the client first on both paths, so prescriptions
// and orders are only reachable through their owning client. On the status
// path it returns the found order; on the create path a nil order means
// proceed to commit. An empty or non-numeric id is a not-found outcome on
// either path, never a commit and never a fault.
func (e *Engine) validateInfo(ctx context.Context, info collected, kind requestKind) (*store.Order, error) {
	client, err := e.store.FindClient(ctx, info.identity.MedicareNumber, info.identity.DateOfBirth)
	if err != nil {
		return nil, err
	}

	switch kind {
	case requestNewOrder:
		prescriptionID, err := parseID(info.prescriptionNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a prescription number", store.ErrPrescriptionNotFound, info.prescriptionNumber)
		}
		if _, err := e.store.FindPrescription(ctx, prescriptionID, client.MedicareNumber); err != nil {
			return nil, err
		}
		return nil, nil

	case requestOrderStatus:
		orderID, err := parseID(info.orderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an order id", store.ErrOrderNotFound, info.orderID)
		}
		order, err := e.store.FindOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("id %s: %w", info.orderID, err)
		}
		return order, nil
	}

	return nil, fmt.Errorf("unknown request kind %d", kind)
}

// StatusText maps a stored order state to the status wording shown to users.
func StatusText(state store.OrderState) (string, error) {
	switch state {
	case store.OrderStatePending:
		return "Your medication order is pending.", nil
	case store.OrderStateReady:
		return "Your medication order is ready for pick up", nil
	case store.OrderStatePickedUp:
		return "Your medication order has already been picked up", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownOrderState, state)
	}
}

// domainMessage converts an expected validation miss into its user-facing
// message. Anything else is a real fault and stays an error.
func domainMessage(err error, info collected) (string, bool) {
	switch {
	case errors.Is(err, store.ErrClientNotFound):
		return msgClientNotFound, true
	case errors.Is(err, store.ErrPrescriptionNotFound):
		return msgRxNotFound, true
	case errors.Is(err, store.ErrOrderNotFound):
		return fmt.Sprintf("The order with the id %s could not be found. Please try a different one.", info.orderID), true
	default:
		return "", false
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
