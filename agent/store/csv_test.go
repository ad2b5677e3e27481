package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		clientsFile: "medicare_number|firstname|lastname|date_of_birth|gender|phonenumber\n" +
			"M1|Alice|Nguyen|1980-01-01|F|555-0101\n" +
			"M2|Bob|Singh|1975-05-12|M|555-0102\n",
		prescriptionsFile: "prescriptionid|supplementid|clientid|datecreated|quantity\n" +
			"1|10|M1|2024-03-01|30\n" +
			"2|11|M2|2024-04-15|60\n",
		ordersFile: "orderid|medicare_number|prescriptionid|order_state\n" +
			"1|M2|2|2\n",
		supplementsFile: "supplementid|name|description\n" +
			"10|Vitamin D|Daily vitamin D3\n" +
			"11|Iron|Iron supplement\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestFindClient(t *testing.T) {
	t.Parallel()

	s, err := NewCSVStore(writeFixtures(t))
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	ctx := context.Background()

	client, err := s.FindClient(ctx, "M1", "1980-01-01")
	if err != nil {
		t.Fatalf("FindClient() error = %v", err)
	}
	if client.FirstName != "Alice" || client.PhoneNumber != "555-0101" {
		t.Fatalf("unexpected client: %+v", client)
	}

	// both fields must match; a right number with a wrong birth date is a miss
	if _, err := s.FindClient(ctx, "M1", "1975-05-12"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if _, err := s.FindClient(ctx, "M9", "1980-01-01"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestFindPrescriptionScopedToClient(t *testing.T) {
	t.Parallel()

	s, err := NewCSVStore(writeFixtures(t))
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	ctx := context.Background()

	p, err := s.FindPrescription(ctx, 1, "M1")
	if err != nil {
		t.Fatalf("FindPrescription() error = %v", err)
	}
	if p.SupplementID != 10 || p.Quantity != 30 {
		t.Fatalf("unexpected prescription: %+v", p)
	}

	// prescription 2 exists, but belongs to M2
	if _, err := s.FindPrescription(ctx, 2, "M1"); !errors.Is(err, ErrPrescriptionNotFound) {
		t.Fatalf("expected ErrPrescriptionNotFound, got %v", err)
	}
}

func TestFindOrder(t *testing.T) {
	t.Parallel()

	s, err := NewCSVStore(writeFixtures(t))
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	ctx := context.Background()

	order, err := s.FindOrder(ctx, 1)
	if err != nil {
		t.Fatalf("FindOrder() error = %v", err)
	}
	if order.State != OrderStateReady {
		t.Fatalf("unexpected order state: %d", order.State)
	}

	if _, err := s.FindOrder(ctx, 42); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestAppendOrderAssignsSequentialIDAndPersists(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t)
	s, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	ctx := context.Background()

	committed, err := s.AppendOrder(ctx, Order{
		MedicareNumber: "M1",
		PrescriptionID: 1,
		State:          OrderStatePending,
	})
	if err != nil {
		t.Fatalf("AppendOrder() error = %v", err)
	}
	if committed.OrderID != 2 {
		t.Fatalf("expected order id 2, got %d", committed.OrderID)
	}

	// the order file was rewritten; a fresh store sees the new record
	reloaded, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore() reload error = %v", err)
	}
	if got := len(reloaded.orders); got != 2 {
		t.Fatalf("expected 2 persisted orders, got %d", got)
	}
	order, err := reloaded.FindOrder(ctx, 2)
	if err != nil {
		t.Fatalf("FindOrder() after reload error = %v", err)
	}
	if order.State != OrderStatePending || order.MedicareNumber != "M1" {
		t.Fatalf("unexpected persisted order: %+v", order)
	}

	// ids keep increasing strictly
	next, err := s.AppendOrder(ctx, Order{MedicareNumber: "M2", PrescriptionID: 2, State: OrderStatePending})
	if err != nil {
		t.Fatalf("AppendOrder() second error = %v", err)
	}
	if next.OrderID != 3 {
		t.Fatalf("expected order id 3, got %d", next.OrderID)
	}
}
