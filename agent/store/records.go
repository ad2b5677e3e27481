package store

import "github.com/uptrace/bun"

// OrderState is the lifecycle stage of a pickup order. Transitions are
// one-directional (pending -> ready -> picked up); this engine only ever
// creates orders as pending and reads the state elsewhere.
type OrderState int

const (
	OrderStatePending  OrderState = 1
	OrderStateReady    OrderState = 2
	OrderStatePickedUp OrderState = 3
)

// Client is a pharmacy client record. The (medicare number, date of birth)
// pair is the authentication identity; both must match before any other
// record of the client is disclosed.
type Client struct {
	bun.BaseModel `bun:"table:clients" csv:"-"`

	MedicareNumber string `csv:"medicare_number" bun:"medicare_number,pk"`
	FirstName      string `csv:"firstname" bun:"firstname"`
	LastName       string `csv:"lastname" bun:"lastname"`
	DateOfBirth    string `csv:"date_of_birth" bun:"date_of_birth"`
	Gender         string `csv:"gender" bun:"gender"`
	PhoneNumber    string `csv:"phonenumber" bun:"phonenumber"`
}

// Prescription belongs to exactly one client, keyed by the client's medicare
// number.
type Prescription struct {
	bun.BaseModel `bun:"table:prescriptions" csv:"-"`

	PrescriptionID int64  `csv:"prescriptionid" bun:"prescriptionid,pk"`
	SupplementID   int64  `csv:"supplementid" bun:"supplementid"`
	ClientID       string `csv:"clientid" bun:"clientid"`
	DateCreated    string `csv:"datecreated" bun:"datecreated"`
	Quantity       int    `csv:"quantity" bun:"quantity"`
}

// Order ids are assigned by the store, strictly increasing.
type Order struct {
	bun.BaseModel `bun:"table:orders" csv:"-"`

	OrderID        int64      `csv:"orderid" bun:"orderid,pk"`
	MedicareNumber string     `csv:"medicare_number" bun:"medicare_number"`
	PrescriptionID int64      `csv:"prescriptionid" bun:"prescriptionid"`
	State          OrderState `csv:"order_state" bun:"order_state"`
}

// Supplement is read-only reference data; the engine never mutates it.
type Supplement struct {
	bun.BaseModel `bun:"table:supplements" csv:"-"`

	SupplementID int64  `csv:"supplementid" bun:"supplementid,pk"`
	Name         string `csv:"name" bun:"name"`
	Description  string `csv:"description" bun:"description"`
}
