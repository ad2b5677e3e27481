package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pharmassist/agent/store"
)

type fakeStore struct {
	clients       []store.Client
	prescriptions []store.Prescription
	orders        []store.Order

	appendErr error
	appended  []store.Order
}

func (f *fakeStore) FindClient(ctx context.Context, medicareNumber, dateOfBirth string) (*store.Client, error) {
	for i := range f.clients {
		c := f.clients[i]
		if c.MedicareNumber == medicareNumber && c.DateOfBirth == dateOfBirth {
			return &c, nil
		}
	}
	return nil, store.ErrClientNotFound
}

func (f *fakeStore) FindPrescription(ctx context.Context, prescriptionID int64, clientID string) (*store.Prescription, error) {
	for i := range f.prescriptions {
		p := f.prescriptions[i]
		if p.PrescriptionID == prescriptionID && p.ClientID == clientID {
			return &p, nil
		}
	}
	return nil, store.ErrPrescriptionNotFound
}

func (f *fakeStore) FindOrder(ctx context.Context, orderID int64) (*store.Order, error) {
	for i := range f.orders {
		o := f.orders[i]
		if o.OrderID == orderID {
			return &o, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (f *fakeStore) AppendOrder(ctx context.Context, order store.Order) (*store.Order, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	order.OrderID = int64(len(f.orders)) + 1
	f.orders = append(f.orders, order)
	f.appended = append(f.appended, order)
	return &order, nil
}

// scriptedPrompter feeds canned answers and records every question asked.
type scriptedPrompter struct {
	answers []string
	asked   []string
	said    []string
}

func (p *scriptedPrompter) Say(text string) {
	p.said = append(p.said, text)
}

func (p *scriptedPrompter) Ask(question string) (string, error) {
	p.asked = append(p.asked, question)
	if len(p.answers) == 0 {
		return "", errors.New("no scripted answer left")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func seededStore() *fakeStore {
	return &fakeStore{
		clients: []store.Client{
			{MedicareNumber: "M1", FirstName: "Alice", DateOfBirth: "1980-01-01"},
			{MedicareNumber: "M2", FirstName: "Bob", DateOfBirth: "1975-05-12"},
		},
		prescriptions: []store.Prescription{
			{PrescriptionID: 1, SupplementID: 10, ClientID: "M1"},
			{PrescriptionID: 2, SupplementID: 11, ClientID: "M2"},
		},
		orders: []store.Order{
			{OrderID: 1, MedicareNumber: "M2", PrescriptionID: 2, State: store.OrderStateReady},
		},
	}
}

func newTestEngine(t *testing.T, st store.Store) *Engine {
	t.Helper()
	e, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNewOrderSuccess(t *testing.T) {
	t.Parallel()

	st := seededStore()
	e := newTestEngine(t, st)
	p := &scriptedPrompter{answers: []string{"M1", "1980-01-01", "1"}}
	sess := NewSession()

	msg, err := e.NewOrder(context.Background(), p, sess)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if msg != "Order Successful! The order number is: 2" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(st.appended) != 1 {
		t.Fatalf("expected one committed order, got %d", len(st.appended))
	}
	committed := st.appended[0]
	if committed.OrderID != 2 || committed.State != store.OrderStatePending {
		t.Fatalf("unexpected committed order: %+v", committed)
	}
	if committed.MedicareNumber != "M1" || committed.PrescriptionID != 1 {
		t.Fatalf("unexpected committed order fields: %+v", committed)
	}
	if _, ok := sess.Identity(); !ok {
		t.Fatal("expected identity cached after successful order")
	}
}

func TestNewOrderUnknownClient(t *testing.T) {
	t.Parallel()

	st := seededStore()
	e := newTestEngine(t, st)
	p := &scriptedPrompter{answers: []string{"M9", "1980-01-01", "1"}}
	sess := NewSession()

	msg, err := e.NewOrder(context.Background(), p, sess)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if msg != msgClientNotFound {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(st.appended) != 0 {
		t.Fatal("no order may be created on a validation failure")
	}
	if _, ok := sess.Identity(); ok {
		t.Fatal("identity must not be cached after a validation failure")
	}
}

func TestNewOrderPrescriptionOwnedByOtherClient(t *testing.T) {
	t.Parallel()

	st := seededStore()
	e := newTestEngine(t, st)
	// prescription 2 exists but belongs to M2
	p := &scriptedPrompter{answers: []string{"M1", "1980-01-01", "2"}}

	msg, err := e.NewOrder(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if msg != msgRxNotFound {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(st.appended) != 0 {
		t.Fatal("no order may be created for a foreign prescription")
	}
}

func TestNewOrderNonNumericPrescription(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seededStore())
	p := &scriptedPrompter{answers: []string{"M1", "1980-01-01", "abc"}}

	msg, err := e.NewOrder(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if msg != msgRxNotFound {
		t.Fatalf("expected prescription-not-found message, got %q", msg)
	}
}

func TestNewOrderEmptyPrescription(t *testing.T) {
	t.Parallel()

	st := seededStore()
	e := newTestEngine(t, st)
	p := &scriptedPrompter{answers: []string{"M1", "1980-01-01", ""}}

	msg, err := e.NewOrder(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if msg != msgRxNotFound {
		t.Fatalf("expected prescription-not-found message, got %q", msg)
	}
	if len(st.appended) != 0 {
		t.Fatal("no order may be created for an empty prescription number")
	}
}

func TestNewOrderReusesCachedIdentity(t *testing.T) {
	t.Parallel()

	st := seededStore()
	e := newTestEngine(t, st)
	sess := NewSession()

	first := &scriptedPrompter{answers: []string{"M1", "1980-01-01", "1"}}
	if _, err := e.NewOrder(context.Background(), first, sess); err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	if len(first.asked) != 3 {
		t.Fatalf("expected 3 prompts on first run, got %d", len(first.asked))
	}

	// identity is remembered; only the order-specific field is asked again
	second := &scriptedPrompter{answers: []string{"1"}}
	msg, err := e.NewOrder(context.Background(), second, sess)
	if err != nil {
		t.Fatalf("NewOrder() second error = %v", err)
	}
	if len(second.asked) != 1 {
		t.Fatalf("expected 1 prompt on second run, got %d: %v", len(second.asked), second.asked)
	}
	if msg != "Order Successful! The order number is: 3" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestOrderStatusReady(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seededStore())
	p := &scriptedPrompter{answers: []string{"M2", "1975-05-12", "1"}}

	msg, err := e.OrderStatus(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("OrderStatus() error = %v", err)
	}
	if msg != "Your medication order is ready for pick up" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestOrderStatusUnknownOrderIncludesID(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seededStore())
	p := &scriptedPrompter{answers: []string{"M2", "1975-05-12", "77"}}

	msg, err := e.OrderStatus(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("OrderStatus() error = %v", err)
	}
	if !strings.Contains(msg, "77") {
		t.Fatalf("message must include the offending id, got %q", msg)
	}
	if msg != "The order with the id 77 could not be found. Please try a different one." {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestOrderStatusNonNumericID(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seededStore())
	p := &scriptedPrompter{answers: []string{"M2", "1975-05-12", "not-a-number"}}

	msg, err := e.OrderStatus(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("OrderStatus() error = %v", err)
	}
	if !strings.Contains(msg, "not-a-number") {
		t.Fatalf("message must include the given id, got %q", msg)
	}
}

func TestOrderStatusEmptyID(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seededStore())
	p := &scriptedPrompter{answers: []string{"M2", "1975-05-12", ""}}

	msg, err := e.OrderStatus(context.Background(), p, NewSession())
	if err != nil {
		t.Fatalf("OrderStatus() error = %v", err)
	}
	if !strings.Contains(msg, "could not be found") {
		t.Fatalf("expected order-not-found message, got %q", msg)
	}
}

func TestOrderStatusCorruptState(t *testing.T) {
	t.Parallel()

	st := seededStore()
	st.orders = append(st.orders, store.Order{OrderID: 9, MedicareNumber: "M2", PrescriptionID: 2, State: 8})
	e := newTestEngine(t, st)
	p := &scriptedPrompter{answers: []string{"M2", "1975-05-12", "9"}}

	_, err := e.OrderStatus(context.Background(), p, NewSession())
	if !errors.Is(err, ErrUnknownOrderState) {
		t.Fatalf("expected ErrUnknownOrderState, got %v", err)
	}
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state store.OrderState
		want  string
	}{
		{store.OrderStatePending, "Your medication order is pending."},
		{store.OrderStateReady, "Your medication order is ready for pick up"},
		{store.OrderStatePickedUp, "Your medication order has already been picked up"},
	}
	for _, tc := range cases {
		got, err := StatusText(tc.state)
		if err != nil {
			t.Fatalf("StatusText(%d) error = %v", tc.state, err)
		}
		if got != tc.want {
			t.Fatalf("StatusText(%d) = %q, want %q", tc.state, got, tc.want)
		}
	}

	if _, err := StatusText(0); !errors.Is(err, ErrUnknownOrderState) {
		t.Fatalf("expected ErrUnknownOrderState, got %v", err)
	}
}

func TestNewOrderPersistFailure(t *testing.T) {
	t.Parallel()

	st := seededStore()
	st.appendErr = errors.New("disk full")
	e := newTestEngine(t, st)
	p := &scriptedPrompter{answers: []string{"M1", "1980-01-01", "1"}}
	sess := NewSession()

	if _, err := e.NewOrder(context.Background(), p, sess); err == nil {
		t.Fatal("expected persistence failure to surface as an error")
	}
	if _, ok := sess.Identity(); ok {
		t.Fatal("identity must not be cached when the commit fails")
	}
}
