package report

import "frota/internal/core"

// SeriesPoint is one month in the trend chart series.
type SeriesPoint struct {
	Label   string     `json:"label"` // short pt-BR label, e.g. "mar/25"
	Year    int        `json:"year"`
	Month   int        `json:"month"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Net     core.Money `json:"net"`
}

// TrailingSeries sums income and expense per calendar month for the
// `months` months ending at endYear/endMonth, oldest first. The anchor
// month is an explicit argument so the series stays a pure function of
// its inputs; callers pass the current month.
func TrailingSeries(txs []core.Transaction, vehicleID string, endYear, endMonth, months int) []SeriesPoint {
	if months <= 0 {
		return nil
	}

	// Walk back to the first month of the series.
	year, month := endYear, endMonth
	for i := 1; i < months; i++ {
		year, month = core.PreviousMonth(year, month)
	}

	out := make([]SeriesPoint, 0, months)
	for i := 0; i < months; i++ {
		w := core.MonthWindow(year, month)
		t := sumTotals(scopeTransactions(txs, vehicleID, w))
		out = append(out, SeriesPoint{
			Label:   core.MonthLabel(year, month),
			Year:    year,
			Month:   month,
			Income:  t.Income,
			Expense: t.Expense,
			Net:     t.Income.Sub(t.Expense),
		})
		if month == 12 {
			year, month = year+1, 1
		} else {
			month++
		}
	}
	return out
}
