// Package records defines the persistence ports for the fleet's four
// record collections and the snapshot fetch that feeds aggregation.
package records

import (
	"context"
	"errors"

	"frota/internal/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// VehicleStore persists vehicles.
type VehicleStore interface {
	ListVehicles(ctx context.Context) ([]core.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (core.Vehicle, error)
	CreateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error)
	UpdateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// CategoryStore persists income and expense categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id string) (core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// TransactionStore persists transactions.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// FuelingStore persists fuelings.
type FuelingStore interface {
	ListFuelings(ctx context.Context) ([]core.Fueling, error)
	GetFueling(ctx context.Context, id string) (core.Fueling, error)
	CreateFueling(ctx context.Context, f core.Fueling) (core.Fueling, error)
	UpdateFueling(ctx context.Context, f core.Fueling) (core.Fueling, error)
	DeleteFueling(ctx context.Context, id string) error
}

// Store is the full persistence surface the HTTP server and the report
// worker depend on.
type Store interface {
	VehicleStore
	CategoryStore
	TransactionStore
	FuelingStore
}
