package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frota/internal/core"
	"frota/internal/report"
)

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 31, 17, 45, 2, 0, time.UTC)
	assert.Equal(t, "relatorio_2025-03-31_174502.pdf", Filename(at))
}

func sampleResult() (report.Result, []core.Vehicle, []core.Category) {
	vehicles := []core.Vehicle{{ID: "v1", Name: "Kombi", Brand: "VW", Model: "Kombi", Year: 2010, Plate: "AAA1A11"}}
	categories := []core.Category{
		{ID: "c1", Name: "Manutenção", Kind: core.Expense},
		{ID: "c2", Name: "Fretes", Kind: core.Income},
	}
	in := report.Input{
		Vehicles:   vehicles,
		Categories: categories,
		Transactions: []core.Transaction{
			{
				ID: "t1", VehicleID: "v1", CategoryID: "c2", Kind: core.Income,
				Amount: core.Money{Cents: 150000}, Description: "Frete São Paulo",
				Date: core.NewCalendarDate(2025, 3, 4), Status: core.Settled,
			},
			{
				ID: "t2", VehicleID: "v1", CategoryID: "c1", Kind: core.Expense,
				Amount: core.Money{Cents: 32000}, Description: "Troca de óleo",
				Date: core.NewCalendarDate(2025, 3, 10), Status: core.Scheduled,
			},
			// References a vehicle that no longer exists.
			{
				ID: "t3", VehicleID: "ghost", CategoryID: "c1", Kind: core.Expense,
				Amount: core.Money{Cents: 9000},
				Date:   core.NewCalendarDate(2025, 3, 11), Status: core.Settled,
			},
		},
		Fuelings: []core.Fueling{
			{ID: "f1", VehicleID: "v1", Liters: 40, FuelType: "diesel", Total: core.Money{Cents: 22000}, Odometer: 120000, Date: core.NewCalendarDate(2025, 3, 2)},
			{ID: "f2", VehicleID: "v1", Liters: 38, FuelType: "diesel", Total: core.Money{Cents: 21000}, Odometer: 120600, Date: core.NewCalendarDate(2025, 3, 20)},
		},
		Window:    core.MonthWindow(2025, 3),
		VehicleID: core.AllVehicles,
	}
	return report.Aggregate(in), vehicles, categories
}

func TestComposeProducesPDF(t *testing.T) {
	res, vehicles, categories := sampleResult()

	var buf bytes.Buffer
	err := NewComposer().Compose(&buf, res, vehicles, categories, time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Greater(t, buf.Len(), 1000)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should start with the PDF magic")
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")), "output should carry the PDF trailer")
}

func TestComposeEmptyPeriod(t *testing.T) {
	res := report.Aggregate(report.Input{
		Window:    core.MonthWindow(2025, 3),
		VehicleID: core.AllVehicles,
	})

	var buf bytes.Buffer
	err := NewComposer().Compose(&buf, res, nil, nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestComposeIsDeterministicForFixedInstant(t *testing.T) {
	res, vehicles, categories := sampleResult()
	at := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	var a, b bytes.Buffer
	require.NoError(t, NewComposer().Compose(&a, res, vehicles, categories, at))
	require.NoError(t, NewComposer().Compose(&b, res, vehicles, categories, at))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestNameOrFallback(t *testing.T) {
	names := map[string]string{"v1": "Kombi"}
	assert.Equal(t, "Kombi", nameOr(names, "v1"))
	assert.Equal(t, missingRef, nameOr(names, "ghost"))
	assert.Equal(t, missingRef, nameOr(nil, "v1"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "curta", clip("curta", 10))
	long := "uma descrição realmente muito longa para caber"
	clipped := clip(long, 10)
	assert.Len(t, []rune(clipped), 10)
}
