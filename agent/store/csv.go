package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	logx "pharmassist/pkg/logger"
)

const (
	clientsFile       = "clients.csv"
	prescriptionsFile = "prescriptions.csv"
	ordersFile        = "orders.csv"
	supplementsFile   = "supplements.csv"
)

// Record files are pipe-separated with a header row.
func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '|'
		return r
	})
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '|'
		return gocsv.NewSafeCSVWriter(w)
	})
}

// CSVStore keeps the four record sets in memory, loaded once at construction.
// Lookups read the loaded snapshot; AppendOrder mutates the order set and
// rewrites the orders file in full.
type CSVStore struct {
	dir string
	log zerolog.Logger

	mu            sync.Mutex
	clients       []Client
	prescriptions []Prescription
	orders        []Order
	supplements   []Supplement
}

var _ Store = (*CSVStore)(nil)

func NewCSVStore(dir string) (*CSVStore, error) {
	s := &CSVStore{
		dir: dir,
		log: logx.Component("store.csv"),
	}

	if err := loadRecords(filepath.Join(dir, clientsFile), &s.clients); err != nil {
		return nil, err
	}
	if err := loadRecords(filepath.Join(dir, prescriptionsFile), &s.prescriptions); err != nil {
		return nil, err
	}
	if err := loadRecords(filepath.Join(dir, ordersFile), &s.orders); err != nil {
		return nil, err
	}
	if err := loadRecords(filepath.Join(dir, supplementsFile), &s.supplements); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("clients", len(s.clients)).
		Int("prescriptions", len(s.prescriptions)).
		Int("orders", len(s.orders)).
		Int("supplements", len(s.supplements)).
		Msg("record store loaded")

	return s, nil
}

func loadRecords[T any](path string, out *[]T) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *CSVStore) FindClient(ctx context.Context, medicareNumber, dateOfBirth string) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clients {
		c := s.clients[i]
		if c.MedicareNumber == medicareNumber && c.DateOfBirth == dateOfBirth {
			return &c, nil
		}
	}
	return nil, ErrClientNotFound
}

func (s *CSVStore) FindPrescription(ctx context.Context, prescriptionID int64, clientID string) (*Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.prescriptions {
		p := s.prescriptions[i]
		if p.PrescriptionID == prescriptionID && p.ClientID == clientID {
			return &p, nil
		}
	}
	return nil, ErrPrescriptionNotFound
}

func (s *CSVStore) FindOrder(ctx context.Context, orderID int64) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		o := s.orders[i]
		if o.OrderID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *CSVStore) AppendOrder(ctx context.Context, order Order) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.OrderID = int64(len(s.orders)) + 1
	s.orders = append(s.orders, order)

	if err := s.persistOrders(); err != nil {
		// roll the in-memory set back so a failed commit leaves no trace
		s.orders = s.orders[:len(s.orders)-1]
		return nil, err
	}

	s.log.Info().Int64("order_id", order.OrderID).Msg("order appended")
	return &order, nil
}

func (s *CSVStore) persistOrders() error {
	path := filepath.Join(s.dir, ordersFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite order file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&s.orders, f); err != nil {
		return fmt.Errorf("encode %s: %w", ordersFile, err)
	}
	return nil
}
