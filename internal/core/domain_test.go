package core

import "testing"

func TestVehicleValidate(t *testing.T) {
	good := Vehicle{ID: "v1", Name: "Fiorino", Brand: "Fiat", Model: "Fiorino", Year: 2020, Plate: "ABC1D23"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Vehicle{Name: "   "}).Validate(); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Manutenção", Kind: Expense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "Fretes", Kind: "transfer"}).Validate(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := (Category{Name: "", Kind: Income}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		VehicleID:  "v1",
		CategoryID: "c1",
		Kind:       Expense,
		Amount:     Money{Cents: 10000},
		Date:       NewCalendarDate(2025, 3, 10),
		Status:     Settled,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{CategoryID: "c1", Kind: Expense, Amount: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 10), Status: Settled},
		{VehicleID: "v1", Kind: Expense, Amount: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 10), Status: Settled},
		{VehicleID: "v1", CategoryID: "c1", Kind: "swap", Amount: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 10), Status: Settled},
		{VehicleID: "v1", CategoryID: "c1", Kind: Income, Amount: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 10), Status: "paid"},
		{VehicleID: "v1", CategoryID: "c1", Kind: Income, Amount: Money{Cents: -1}, Date: NewCalendarDate(2025, 3, 10), Status: Settled},
		{VehicleID: "v1", CategoryID: "c1", Kind: Income, Amount: Money{Cents: 1}, Date: CalendarDate{}, Status: Settled},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	// Zero amounts are allowed: the amount is non-negative, not positive.
	zero := good
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}
}

func TestFuelingValidate(t *testing.T) {
	good := Fueling{
		VehicleID: "v1",
		Liters:    40,
		FuelType:  "diesel",
		Total:     Money{Cents: 20000},
		Odometer:  105000,
		Date:      NewCalendarDate(2025, 3, 12),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Fueling{
		{Liters: 40, Total: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 12)},
		{VehicleID: "v1", Liters: 0, Total: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 12)},
		{VehicleID: "v1", Liters: -3, Total: Money{Cents: 1}, Date: NewCalendarDate(2025, 3, 12)},
		{VehicleID: "v1", Liters: 40, Total: Money{Cents: 0}, Date: NewCalendarDate(2025, 3, 12)},
		{VehicleID: "v1", Liters: 40, Total: Money{Cents: 1}, Odometer: -1, Date: NewCalendarDate(2025, 3, 12)},
		{VehicleID: "v1", Liters: 40, Total: Money{Cents: 1}, Date: CalendarDate{}},
	}
	for i, f := range bads {
		if err := f.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
