package core

import (
	"errors"
	"math"
	"strings"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"

	Scheduled Status = "scheduled"
	Settled   Status = "settled"

	// AllVehicles is the sentinel vehicle filter meaning "no filter".
	AllVehicles = "all"
)

type (
	// Kind classifies categories and transactions as money in or out.
	Kind string

	// Status tells whether money has actually moved (settled) or is
	// merely planned (scheduled).
	Status string

	Vehicle struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Brand string `json:"brand"`
		Model string `json:"model"`
		Year  int    `json:"year"`
		Plate string `json:"plate"`
	}

	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Kind Kind   `json:"kind"`
	}

	Transaction struct {
		ID            string       `json:"id"`
		VehicleID     string       `json:"vehicleId"`
		CategoryID    string       `json:"categoryId"`
		Kind          Kind         `json:"kind"`
		Amount        Money        `json:"amount"`
		Description   string       `json:"description"`
		Date          CalendarDate `json:"date"`
		PaymentMethod string       `json:"paymentMethod"`
		Status        Status       `json:"status"`
	}

	Fueling struct {
		ID        string       `json:"id"`
		VehicleID string       `json:"vehicleId"`
		Liters    float64      `json:"liters"`
		FuelType  string       `json:"fuelType"`
		Total     Money        `json:"total"`
		Odometer  int64        `json:"odometer"`
		Date      CalendarDate `json:"date"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidLiters    = errors.New("invalid liters")
	ErrInvalidOdometer  = errors.New("invalid odometer")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyVehicleRef  = errors.New("empty vehicle reference")
	ErrEmptyCategoryRef = errors.New("empty category reference")
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool { return k == Income || k == Expense }

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool { return s == Scheduled || s == Settled }

func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyName
	}
	if len(v.Name) > 120 {
		return errors.New("name too long (max 120 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

// Validate checks the transaction's own shape. It deliberately does
// not check that Kind matches the referenced category's kind: the
// editing surface owns that constraint and historical records are
// trusted as-is.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.VehicleID) == "" {
		return ErrEmptyVehicleRef
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategoryRef
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return t.Date.Validate()
}

func (f Fueling) Validate() error {
	if strings.TrimSpace(f.VehicleID) == "" {
		return ErrEmptyVehicleRef
	}
	if f.Liters <= 0 || math.IsInf(f.Liters, 0) || math.IsNaN(f.Liters) {
		return ErrInvalidLiters
	}
	if f.Total.Cents <= 0 {
		return ErrInvalidAmount
	}
	if f.Odometer < 0 {
		return ErrInvalidOdometer
	}
	return f.Date.Validate()
}
