// Package report computes every derived figure the dashboard and the
// PDF report show: period totals with scheduled/settled splits,
// month-over-month comparison, fleet fuel consumption, cost per
// kilometer, and the category/vehicle breakdowns. Aggregation is a
// pure projection over an in-memory snapshot; it performs no I/O and
// never mutates its inputs.
package report

import (
	"math"
	"sort"

	"frota/internal/core"
)

// Input is the immutable snapshot a single aggregation pass works on.
// VehicleID narrows every figure to one vehicle; empty or
// core.AllVehicles means the whole fleet.
type Input struct {
	Vehicles     []core.Vehicle
	Categories   []core.Category
	Transactions []core.Transaction
	Fuelings     []core.Fueling
	Window       core.Window
	VehicleID    string
}

// Totals carries period sums in cents. Scheduled and settled always
// add up to the corresponding total.
type Totals struct {
	Income           core.Money `json:"income"`
	Expense          core.Money `json:"expense"`
	Balance          core.Money `json:"balance"`
	ScheduledIncome  core.Money `json:"scheduledIncome"`
	SettledIncome    core.Money `json:"settledIncome"`
	ScheduledExpense core.Money `json:"scheduledExpense"`
	SettledExpense   core.Money `json:"settledExpense"`
}

// Comparison is the percent change against the preceding calendar
// month, one decimal. A zero previous total reports 0, not infinity;
// that floor is deliberate and is not a true rate.
type Comparison struct {
	IncomeChangePct  float64 `json:"incomeChangePct"`
	ExpenseChangePct float64 `json:"expenseChangePct"`
}

// CategoryBreakdown sums one category's in-window transactions, split
// by status. Categories with nothing in either status are omitted
// from breakdown lists entirely.
type CategoryBreakdown struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Scheduled  core.Money `json:"scheduled"`
	Settled    core.Money `json:"settled"`
	Total      core.Money `json:"total"`
	Count      int        `json:"count"`
}

// VehicleBreakdown combines a vehicle's settled expense transactions
// with its fueling spend for the window.
type VehicleBreakdown struct {
	VehicleID string     `json:"vehicleId"`
	Name      string     `json:"name"`
	Expenses  core.Money `json:"expenses"`
	Fuelings  core.Money `json:"fuelings"`
	Total     core.Money `json:"total"`
}

// VehicleConsumption is one vehicle's km-per-liter figure derived from
// its full fueling history. Vehicles with fewer than two fuelings have
// no figure and do not appear.
type VehicleConsumption struct {
	VehicleID  string  `json:"vehicleId"`
	Name       string  `json:"name"`
	KmPerLiter float64 `json:"kmPerLiter"`
}

// Result is the full aggregation output consumed by the dashboard and
// the report composer. Every field derives only from the Input; same
// input, same result.
type Result struct {
	Window    core.Window `json:"window"`
	VehicleID string      `json:"vehicleId"`

	// Scoped record sets: vehicle filter plus inclusive window.
	Transactions []core.Transaction `json:"transactions"`
	Fuelings     []core.Fueling     `json:"fuelings"`

	Totals     Totals     `json:"totals"`
	Comparison Comparison `json:"comparison"`

	AvgConsumption float64              `json:"avgConsumption"` // km/l, unweighted fleet mean
	Consumptions   []VehicleConsumption `json:"consumptions"`

	KmDriven  int64   `json:"kmDriven"`
	CostPerKm float64 `json:"costPerKm"` // reais per km, 0 when no distance

	FuelingTotal core.Money `json:"fuelingTotal"`

	IncomeByCategory  []CategoryBreakdown `json:"incomeByCategory"`
	ExpenseByCategory []CategoryBreakdown `json:"expenseByCategory"`
	ByVehicle         []VehicleBreakdown  `json:"byVehicle"`

	VehicleCount     int `json:"vehicleCount"`
	TransactionCount int `json:"transactionCount"`
	FuelingCount     int `json:"fuelingCount"`
}

// Aggregate computes the full Result for one window and vehicle filter.
func Aggregate(in Input) Result {
	scopedTx := scopeTransactions(in.Transactions, in.VehicleID, in.Window)
	scopedFuel := scopeFuelings(in.Fuelings, in.VehicleID, in.Window)

	res := Result{
		Window:       in.Window,
		VehicleID:    normalizeFilter(in.VehicleID),
		Transactions: scopedTx,
		Fuelings:     scopedFuel,
		Totals:       sumTotals(scopedTx),
	}
	for _, v := range in.Vehicles {
		if matchesVehicle(in.VehicleID, v.ID) {
			res.VehicleCount++
		}
	}
	res.TransactionCount = len(scopedTx)
	res.FuelingCount = len(scopedFuel)

	prevWindow := previousWindow(in.Window)
	prev := sumTotals(scopeTransactions(in.Transactions, in.VehicleID, prevWindow))
	res.Comparison = Comparison{
		IncomeChangePct:  percentChange(res.Totals.Income.Cents, prev.Income.Cents),
		ExpenseChangePct: percentChange(res.Totals.Expense.Cents, prev.Expense.Cents),
	}

	res.Consumptions, res.AvgConsumption = fleetConsumption(in.Vehicles, in.Fuelings, in.VehicleID)
	res.KmDriven, res.CostPerKm = costPerKm(in.Vehicles, scopedFuel, scopedTx)

	for _, f := range scopedFuel {
		res.FuelingTotal = res.FuelingTotal.Add(f.Total)
	}

	res.IncomeByCategory = categoryBreakdown(in.Categories, scopedTx, core.Income)
	res.ExpenseByCategory = categoryBreakdown(in.Categories, scopedTx, core.Expense)
	res.ByVehicle = vehicleBreakdown(in.Vehicles, scopedTx, scopedFuel)

	return res
}

func normalizeFilter(vehicleID string) string {
	if vehicleID == "" {
		return core.AllVehicles
	}
	return vehicleID
}

func matchesVehicle(filter, vehicleID string) bool {
	return filter == "" || filter == core.AllVehicles || filter == vehicleID
}

func scopeTransactions(txs []core.Transaction, filter string, w core.Window) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if matchesVehicle(filter, t.VehicleID) && w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func scopeFuelings(fuels []core.Fueling, filter string, w core.Window) []core.Fueling {
	out := make([]core.Fueling, 0, len(fuels))
	for _, f := range fuels {
		if matchesVehicle(filter, f.VehicleID) && w.Contains(f.Date) {
			out = append(out, f)
		}
	}
	return out
}

func sumTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
			if tx.Status == core.Scheduled {
				t.ScheduledIncome = t.ScheduledIncome.Add(tx.Amount)
			} else {
				t.SettledIncome = t.SettledIncome.Add(tx.Amount)
			}
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
			if tx.Status == core.Scheduled {
				t.ScheduledExpense = t.ScheduledExpense.Add(tx.Amount)
			} else {
				t.SettledExpense = t.SettledExpense.Add(tx.Amount)
			}
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// previousWindow shifts the window's month back by one, rolling the
// year over at January. Comparison is always month-against-month even
// for explicit ranges: the preceding month of the range's start.
func previousWindow(w core.Window) core.Window {
	y, m := core.PreviousMonth(w.Start.Year, w.Start.Month)
	return core.MonthWindow(y, m)
}

func percentChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	pct := (float64(current) - float64(previous)) / float64(previous) * 100
	return math.Round(pct*10) / 10
}

// fleetConsumption walks each vehicle's full fueling history sorted by
// odometer and pairs consecutive fills, charging the later fill's
// liters against the distance between the two readings. Sorting by
// odometer rather than date makes out-of-order entry harmless.
func fleetConsumption(vehicles []core.Vehicle, fuels []core.Fueling, filter string) ([]VehicleConsumption, float64) {
	byVehicle := make(map[string][]core.Fueling)
	for _, f := range fuels {
		if !matchesVehicle(filter, f.VehicleID) {
			continue
		}
		if !(f.Liters > 0) || math.IsInf(f.Liters, 0) {
			continue // malformed record, excluded rather than poisoning the sum
		}
		byVehicle[f.VehicleID] = append(byVehicle[f.VehicleID], f)
	}

	var out []VehicleConsumption
	var sum float64
	for _, v := range vehicles {
		vf := byVehicle[v.ID]
		if len(vf) < 2 {
			continue
		}
		sort.SliceStable(vf, func(i, j int) bool { return vf[i].Odometer < vf[j].Odometer })

		var totalKm int64
		var totalLiters float64
		for i := 1; i < len(vf); i++ {
			totalKm += vf[i].Odometer - vf[i-1].Odometer
			totalLiters += vf[i].Liters
		}
		if totalLiters <= 0 {
			continue
		}
		kmPerLiter := float64(totalKm) / totalLiters
		out = append(out, VehicleConsumption{VehicleID: v.ID, Name: v.Name, KmPerLiter: kmPerLiter})
		sum += kmPerLiter
	}

	if len(out) == 0 {
		return out, 0
	}
	return out, sum / float64(len(out))
}

// costPerKm derives in-window distance from each vehicle's first and
// last windowed odometer readings (needs at least two fills), then
// divides the window's settled expenses by the fleet total.
func costPerKm(vehicles []core.Vehicle, scopedFuel []core.Fueling, scopedTx []core.Transaction) (int64, float64) {
	byVehicle := make(map[string][]core.Fueling)
	for _, f := range scopedFuel {
		byVehicle[f.VehicleID] = append(byVehicle[f.VehicleID], f)
	}

	var totalKm int64
	for _, v := range vehicles {
		vf := byVehicle[v.ID]
		if len(vf) < 2 {
			continue
		}
		sort.SliceStable(vf, func(i, j int) bool { return vf[i].Odometer < vf[j].Odometer })
		totalKm += vf[len(vf)-1].Odometer - vf[0].Odometer
	}

	var settledExpenses int64
	for _, t := range scopedTx {
		if t.Kind == core.Expense && t.Status == core.Settled {
			settledExpenses += t.Amount.Cents
		}
	}

	if totalKm <= 0 {
		return totalKm, 0
	}
	return totalKm, (float64(settledExpenses) / 100.0) / float64(totalKm)
}

func categoryBreakdown(categories []core.Category, scopedTx []core.Transaction, kind core.Kind) []CategoryBreakdown {
	var out []CategoryBreakdown
	for _, c := range categories {
		if c.Kind != kind {
			continue
		}
		var row CategoryBreakdown
		row.CategoryID = c.ID
		row.Name = c.Name
		for _, t := range scopedTx {
			if t.CategoryID != c.ID || t.Kind != kind {
				continue
			}
			row.Count++
			if t.Status == core.Scheduled {
				row.Scheduled = row.Scheduled.Add(t.Amount)
			} else {
				row.Settled = row.Settled.Add(t.Amount)
			}
		}
		row.Total = row.Scheduled.Add(row.Settled)
		if row.Scheduled.IsZero() && row.Settled.IsZero() {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func vehicleBreakdown(vehicles []core.Vehicle, scopedTx []core.Transaction, scopedFuel []core.Fueling) []VehicleBreakdown {
	var out []VehicleBreakdown
	for _, v := range vehicles {
		var row VehicleBreakdown
		row.VehicleID = v.ID
		row.Name = v.Name
		for _, t := range scopedTx {
			if t.VehicleID == v.ID && t.Kind == core.Expense && t.Status == core.Settled {
				row.Expenses = row.Expenses.Add(t.Amount)
			}
		}
		for _, f := range scopedFuel {
			if f.VehicleID == v.ID {
				row.Fuelings = row.Fuelings.Add(f.Total)
			}
		}
		row.Total = row.Expenses.Add(row.Fuelings)
		if row.Total.IsZero() {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
