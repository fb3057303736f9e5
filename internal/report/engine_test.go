package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frota/internal/core"
)

func vehicle(id, name string) core.Vehicle {
	return core.Vehicle{ID: id, Name: name, Brand: "Fiat", Model: "Fiorino", Year: 2020, Plate: "ABC1D23"}
}

func category(id, name string, kind core.Kind) core.Category {
	return core.Category{ID: id, Name: name, Kind: kind}
}

func tx(vehicleID, categoryID string, kind core.Kind, cents int64, date string, status core.Status) core.Transaction {
	d, err := core.ParseCalendarDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:         "tx-" + date + "-" + categoryID,
		VehicleID:  vehicleID,
		CategoryID: categoryID,
		Kind:       kind,
		Amount:     core.Money{Cents: cents},
		Date:       d,
		Status:     status,
	}
}

func fueling(vehicleID string, liters float64, totalCents, odometer int64, date string) core.Fueling {
	d, err := core.ParseCalendarDate(date)
	if err != nil {
		panic(err)
	}
	return core.Fueling{
		ID:        "f-" + date + "-" + vehicleID,
		VehicleID: vehicleID,
		Liters:    liters,
		FuelType:  "diesel",
		Total:     core.Money{Cents: totalCents},
		Odometer:  odometer,
		Date:      d,
	}
}

func march2025() core.Window { return core.MonthWindow(2025, 3) }

func TestAggregateEndToEndScenario(t *testing.T) {
	// One vehicle, one expense category, two settled March expenses of
	// R$ 100 and R$ 50, one March fueling of 40 l / R$ 200.
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Manutenção", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 10000, "2025-03-05", core.Settled),
			tx("v1", "c1", core.Expense, 5000, "2025-03-20", core.Settled),
		},
		Fuelings:  []core.Fueling{fueling("v1", 40, 20000, 120000, "2025-03-10")},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)

	assert.Equal(t, int64(0), res.Totals.Income.Cents)
	assert.Equal(t, int64(15000), res.Totals.Expense.Cents)
	assert.Equal(t, int64(20000), res.FuelingTotal.Cents)

	require.Len(t, res.ByVehicle, 1)
	assert.Equal(t, int64(35000), res.ByVehicle[0].Total.Cents)
	assert.Equal(t, int64(15000), res.ByVehicle[0].Expenses.Cents)
	assert.Equal(t, int64(20000), res.ByVehicle[0].Fuelings.Cents)

	require.Len(t, res.ExpenseByCategory, 1)
	assert.Equal(t, "Manutenção", res.ExpenseByCategory[0].Name)
	assert.Equal(t, int64(15000), res.ExpenseByCategory[0].Total.Cents)
	assert.Equal(t, 2, res.ExpenseByCategory[0].Count)

	assert.Empty(t, res.IncomeByCategory)
}

func TestAggregateDeterminism(t *testing.T) {
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi"), vehicle("v2", "Strada")},
		Categories: []core.Category{
			category("c1", "Manutenção", core.Expense),
			category("c2", "Fretes", core.Income),
		},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 10000, "2025-03-05", core.Settled),
			tx("v2", "c2", core.Income, 90000, "2025-03-06", core.Scheduled),
			tx("v1", "c2", core.Income, 40000, "2025-03-07", core.Settled),
		},
		Fuelings: []core.Fueling{
			fueling("v1", 30, 15000, 100000, "2025-03-01"),
			fueling("v1", 25, 13000, 100400, "2025-03-18"),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	first := Aggregate(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Aggregate(in))
	}
}

func TestBalanceAndStatusSplitIdentities(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Fretes", core.Income), category("c2", "Pneus", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Income, 30000, "2025-03-01", core.Scheduled),
			tx("v1", "c1", core.Income, 45000, "2025-03-02", core.Settled),
			tx("v1", "c2", core.Expense, 12000, "2025-03-03", core.Scheduled),
			tx("v1", "c2", core.Expense, 8000, "2025-03-04", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	tot := Aggregate(in).Totals
	assert.Equal(t, tot.Income.Sub(tot.Expense), tot.Balance)
	assert.Equal(t, tot.Income, tot.ScheduledIncome.Add(tot.SettledIncome))
	assert.Equal(t, tot.Expense, tot.ScheduledExpense.Add(tot.SettledExpense))
}

func TestPercentChangeAgainstPreviousMonth(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Fretes", core.Income)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Income, 20000, "2025-02-15", core.Settled),
			tx("v1", "c1", core.Income, 30000, "2025-03-15", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	assert.InDelta(t, 50.0, res.Comparison.IncomeChangePct, 1e-9)
	// No expenses either month: floor applies.
	assert.Zero(t, res.Comparison.ExpenseChangePct)
}

func TestPercentChangeZeroPreviousFloor(t *testing.T) {
	// Previous month is empty and current is 150: the documented
	// fallback reports 0, never infinity or NaN.
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Fretes", core.Income)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Income, 15000, "2025-03-15", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	assert.Zero(t, res.Comparison.IncomeChangePct)
}

func TestPercentChangeYearRollover(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Fretes", core.Income)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Income, 10000, "2024-12-20", core.Settled),
			tx("v1", "c1", core.Income, 12500, "2025-01-10", core.Settled),
		},
		Window:    core.MonthWindow(2025, 1),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	assert.InDelta(t, 25.0, res.Comparison.IncomeChangePct, 1e-9)
}

func TestConsumptionTwoFuelings(t *testing.T) {
	// Odometers 10000 and 10500, liters 5 then 25: only the later
	// fill's liters count, so 500 km / 25 l = 20 km/l.
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi")},
		Fuelings: []core.Fueling{
			fueling("v1", 5, 3000, 10000, "2025-03-01"),
			fueling("v1", 25, 14000, 10500, "2025-03-20"),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.Consumptions, 1)
	assert.InDelta(t, 20.0, res.Consumptions[0].KmPerLiter, 1e-9)
	assert.InDelta(t, 20.0, res.AvgConsumption, 1e-9)
}

func TestConsumptionExcludesSingleFuelingVehicles(t *testing.T) {
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi"), vehicle("v2", "Strada"), vehicle("v3", "Toro")},
		Fuelings: []core.Fueling{
			// v1: two fills, 400 km / 20 l = 20 km/l.
			fueling("v1", 10, 6000, 50000, "2025-03-01"),
			fueling("v1", 20, 11000, 50400, "2025-03-15"),
			// v2: a single fill contributes nothing.
			fueling("v2", 35, 18000, 90000, "2025-03-10"),
			// v3: no fills at all.
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.Consumptions, 1)
	assert.Equal(t, "v1", res.Consumptions[0].VehicleID)
	// Mean over defined figures only: excluded vehicles are not zeros.
	assert.InDelta(t, 20.0, res.AvgConsumption, 1e-9)
}

func TestConsumptionUsesFullHistoryNotWindow(t *testing.T) {
	// One fill far before the window plus one inside it: consumption
	// still computes from the pair, because it reads full history.
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi")},
		Fuelings: []core.Fueling{
			fueling("v1", 30, 15000, 80000, "2024-11-02"),
			fueling("v1", 40, 20000, 80800, "2025-03-12"),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.Consumptions, 1)
	assert.InDelta(t, 20.0, res.Consumptions[0].KmPerLiter, 1e-9)
	// Cost-per-km distance is windowed, though: a single in-window
	// fill yields no distance.
	assert.Zero(t, res.KmDriven)
}

func TestConsumptionNonMonotonicOdometer(t *testing.T) {
	// A later fill recorded with a smaller odometer is kept as-is and
	// its negative step flows into the sum. This documents observed
	// behavior; the data is not corrected.
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi")},
		Fuelings: []core.Fueling{
			fueling("v1", 10, 5000, 10000, "2025-03-01"),
			fueling("v1", 10, 5000, 9000, "2025-03-10"),
			fueling("v1", 10, 5000, 10400, "2025-03-20"),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.Consumptions, 1)
	// Sorted by odometer: 9000, 10000, 10400 -> 1400 km over 20 l.
	assert.InDelta(t, 70.0, res.Consumptions[0].KmPerLiter, 1e-9)
}

func TestCostPerKm(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi"), vehicle("v2", "Strada")},
		Categories: []core.Category{category("c1", "Manutenção", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 50000, "2025-03-05", core.Settled),
			// Scheduled expenses stay out of the numerator.
			tx("v1", "c1", core.Expense, 99900, "2025-03-06", core.Scheduled),
		},
		Fuelings: []core.Fueling{
			fueling("v1", 30, 15000, 100000, "2025-03-02"),
			fueling("v1", 25, 13000, 100400, "2025-03-12"),
			fueling("v1", 20, 11000, 101000, "2025-03-28"),
			// v2 has one windowed fill: zero km contribution.
			fueling("v2", 40, 20000, 70000, "2025-03-15"),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	assert.Equal(t, int64(1000), res.KmDriven)
	// R$ 500,00 settled over 1000 km.
	assert.InDelta(t, 0.5, res.CostPerKm, 1e-9)
}

func TestCostPerKmZeroDistance(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{category("c1", "Manutenção", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 50000, "2025-03-05", core.Settled),
		},
		Fuelings:  []core.Fueling{fueling("v1", 30, 15000, 100000, "2025-03-02")},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	assert.Zero(t, res.KmDriven)
	assert.Zero(t, res.CostPerKm)
}

func TestCategoryBreakdownOmitsEmptyCategories(t *testing.T) {
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{
			category("c1", "Manutenção", core.Expense),
			category("c2", "Pedágio", core.Expense), // no transactions
			category("c3", "Fretes", core.Income),   // only out-of-window
		},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 7000, "2025-03-09", core.Settled),
			tx("v1", "c3", core.Income, 100000, "2025-04-01", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.ExpenseByCategory, 1)
	assert.Equal(t, "Manutenção", res.ExpenseByCategory[0].Name)
	assert.Empty(t, res.IncomeByCategory)
}

func TestCategoryBreakdownSplitsAndSorts(t *testing.T) {
	in := Input{
		Vehicles: []core.Vehicle{vehicle("v1", "Kombi")},
		Categories: []core.Category{
			category("c1", "Manutenção", core.Expense),
			category("c2", "Pedágio", core.Expense),
		},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 4000, "2025-03-01", core.Scheduled),
			tx("v1", "c1", core.Expense, 2000, "2025-03-02", core.Settled),
			tx("v1", "c2", core.Expense, 9000, "2025-03-03", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.ExpenseByCategory, 2)
	// Sorted by total descending.
	assert.Equal(t, "Pedágio", res.ExpenseByCategory[0].Name)
	assert.Equal(t, "Manutenção", res.ExpenseByCategory[1].Name)
	assert.Equal(t, int64(4000), res.ExpenseByCategory[1].Scheduled.Cents)
	assert.Equal(t, int64(2000), res.ExpenseByCategory[1].Settled.Cents)
	assert.Equal(t, 2, res.ExpenseByCategory[1].Count)
}

func TestVehicleFilterScopesEverything(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi"), vehicle("v2", "Strada")},
		Categories: []core.Category{category("c1", "Manutenção", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 10000, "2025-03-05", core.Settled),
			tx("v2", "c1", core.Expense, 70000, "2025-03-05", core.Settled),
		},
		Fuelings: []core.Fueling{
			fueling("v1", 30, 15000, 100000, "2025-03-02"),
			fueling("v2", 45, 25000, 50000, "2025-03-02"),
		},
		Window:    march2025(),
		VehicleID: "v1",
	}

	res := Aggregate(in)
	assert.Equal(t, int64(10000), res.Totals.Expense.Cents)
	require.Len(t, res.Fuelings, 1)
	assert.Equal(t, "v1", res.Fuelings[0].VehicleID)
	require.Len(t, res.ByVehicle, 1)
	assert.Equal(t, "v1", res.ByVehicle[0].VehicleID)
	assert.Equal(t, 1, res.VehicleCount, "summary counts only vehicles in scope")

	unfiltered := in
	unfiltered.VehicleID = core.AllVehicles
	assert.Equal(t, 2, Aggregate(unfiltered).VehicleCount)
}

func TestVehicleBreakdownOmitsZeroRows(t *testing.T) {
	in := Input{
		Vehicles:   []core.Vehicle{vehicle("v1", "Kombi"), vehicle("v2", "Parada")},
		Categories: []core.Category{category("c1", "Manutenção", core.Expense)},
		Transactions: []core.Transaction{
			tx("v1", "c1", core.Expense, 10000, "2025-03-05", core.Settled),
		},
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	res := Aggregate(in)
	require.Len(t, res.ByVehicle, 1)
	assert.Equal(t, "v1", res.ByVehicle[0].VehicleID)
}

func TestTrailingSeries(t *testing.T) {
	txs := []core.Transaction{
		tx("v1", "c1", core.Income, 10000, "2024-11-10", core.Settled),
		tx("v1", "c2", core.Expense, 4000, "2024-12-05", core.Settled),
		tx("v1", "c1", core.Income, 20000, "2025-01-15", core.Scheduled),
		tx("v1", "c2", core.Expense, 5000, "2025-01-20", core.Settled),
		// Outside the series range.
		tx("v1", "c1", core.Income, 99999, "2024-07-01", core.Settled),
	}

	series := TrailingSeries(txs, core.AllVehicles, 2025, 1, 6)
	require.Len(t, series, 6)
	assert.Equal(t, "ago/24", series[0].Label)
	assert.Equal(t, "jan/25", series[5].Label)

	assert.Equal(t, int64(10000), series[3].Income.Cents) // nov/24
	assert.Equal(t, int64(4000), series[4].Expense.Cents) // dez/24
	assert.Equal(t, int64(15000), series[5].Net.Cents)    // jan/25
}

func TestTrailingSeriesYearBoundaryAndFilter(t *testing.T) {
	txs := []core.Transaction{
		tx("v1", "c1", core.Income, 10000, "2024-12-10", core.Settled),
		tx("v2", "c1", core.Income, 50000, "2024-12-10", core.Settled),
	}

	series := TrailingSeries(txs, "v1", 2025, 2, 3)
	require.Len(t, series, 3)
	assert.Equal(t, "dez/24", series[0].Label)
	assert.Equal(t, int64(10000), series[0].Income.Cents)
	assert.Zero(t, series[1].Income.Cents)
	assert.Zero(t, series[2].Income.Cents)
}

func TestAggregateDoesNotMutateInputs(t *testing.T) {
	fuels := []core.Fueling{
		fueling("v1", 25, 13000, 100400, "2025-03-18"),
		fueling("v1", 30, 15000, 100000, "2025-03-01"),
	}
	in := Input{
		Vehicles:  []core.Vehicle{vehicle("v1", "Kombi")},
		Fuelings:  fuels,
		Window:    march2025(),
		VehicleID: core.AllVehicles,
	}

	_ = Aggregate(in)
	// Input order must survive: the engine sorts its own copies.
	assert.Equal(t, int64(100400), fuels[0].Odometer)
	assert.Equal(t, int64(100000), fuels[1].Odometer)
}
