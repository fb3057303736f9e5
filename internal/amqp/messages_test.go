package amqp

import (
	"testing"

	"frota/internal/core"
)

func TestReportJobMessageRoundTrip(t *testing.T) {
	msg := NewReportJobMessage(core.MonthWindow(2025, 3), "v1")
	if msg.JobID == "" {
		t.Fatal("expected generated job id")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReportJobMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.JobID != msg.JobID || got.Start != "2025-03-01" || got.End != "2025-03-31" || got.VehicleID != "v1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReportJobMessageDefaultsToAllVehicles(t *testing.T) {
	msg := NewReportJobMessage(core.MonthWindow(2025, 3), "")
	if msg.VehicleID != core.AllVehicles {
		t.Fatalf("vehicle id = %q", msg.VehicleID)
	}
}

func TestReportJobMessageWindow(t *testing.T) {
	msg := NewReportJobMessage(core.MonthWindow(2025, 2), "all")
	w, err := msg.Window()
	if err != nil {
		t.Fatal(err)
	}
	if w.Start.String() != "2025-02-01" || w.End.String() != "2025-02-28" {
		t.Fatalf("window = %+v", w)
	}
}

func TestReportJobMessageWindowRejectsBadDates(t *testing.T) {
	msg := &ReportJobMessage{JobID: "j", Start: "2025-13-01", End: "2025-03-31"}
	if _, err := msg.Window(); err == nil {
		t.Fatal("expected error for bad start")
	}

	msg = &ReportJobMessage{JobID: "j", Start: "2025-03-31", End: "2025-03-01"}
	if _, err := msg.Window(); err == nil {
		t.Fatal("expected error for inverted window")
	}
}
