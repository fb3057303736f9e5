package records

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"frota/internal/core"
)

// Snapshot is a point-in-time read of all four collections. It is the
// raw material of an aggregation pass.
type Snapshot struct {
	Vehicles     []core.Vehicle
	Categories   []core.Category
	Transactions []core.Transaction
	Fuelings     []core.Fueling
}

// FetchSnapshot reads the four collections concurrently and fails fast:
// the first list error cancels the remaining reads and is returned.
func FetchSnapshot(ctx context.Context, s Store) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Vehicles, err = s.ListVehicles(ctx)
		if err != nil {
			return fmt.Errorf("list vehicles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Categories, err = s.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Transactions, err = s.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Fuelings, err = s.ListFuelings(ctx)
		if err != nil {
			return fmt.Errorf("list fuelings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
