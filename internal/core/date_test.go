package core

import (
	"testing"
)

func TestParseCalendarDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-03-15", true},
		{"2024-02-29", true}, // leap day
		{"2025-02-29", false},
		{"2025-04-31", false},
		{"2025-13-01", false},
		{"2025-00-10", false},
		{"2025-1-1", false}, // not zero padded
		{"20250101", false},
		{"2025/01/01", false},
		{"", false},
		{"abcd-ef-gh", false},
	}
	for _, tc := range cases {
		d, err := ParseCalendarDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseCalendarDate(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseCalendarDate(%q): expected error, got %v", tc.in, d)
		}
	}
}

func TestCalendarDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2025-01-01", "1999-12-31", "2024-02-29", "2025-10-05"} {
		d, err := ParseCalendarDate(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := d.String(); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}

func TestCalendarDateOrdering(t *testing.T) {
	a := NewCalendarDate(2025, 3, 10)
	b := NewCalendarDate(2025, 3, 11)
	c := NewCalendarDate(2025, 4, 1)
	if !a.Before(b) || !b.Before(c) {
		t.Fatal("expected a < b < c")
	}
	if a.After(b) {
		t.Fatal("a should not be after b")
	}
	if a.Compare(a) != 0 {
		t.Fatal("a should equal itself")
	}
}

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		year, month int
		lastDay     int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29},
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tc := range cases {
		w := MonthWindow(tc.year, tc.month)
		if w.Start.Day != 1 || w.End.Day != tc.lastDay {
			t.Fatalf("MonthWindow(%d, %d) = %v, want last day %d", tc.year, tc.month, w, tc.lastDay)
		}
		if !w.Contains(w.Start) || !w.Contains(w.End) {
			t.Fatalf("window bounds must be inclusive: %v", w)
		}
		if w.Contains(NewCalendarDate(tc.year, tc.month, tc.lastDay+1)) {
			// Day past the end normalizes to next month; must not match.
			t.Fatalf("window %v contains day past end", w)
		}
	}
}

func TestPreviousMonth(t *testing.T) {
	if y, m := PreviousMonth(2025, 3); y != 2025 || m != 2 {
		t.Fatalf("got %d-%d", y, m)
	}
	if y, m := PreviousMonth(2025, 1); y != 2024 || m != 12 {
		t.Fatalf("year rollover: got %d-%d", y, m)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(2025, 3); got != "mar/25" {
		t.Fatalf("MonthLabel(2025, 3) = %q", got)
	}
	if got := MonthLabel(2006, 1); got != "jan/06" {
		t.Fatalf("MonthLabel(2006, 1) = %q", got)
	}
}
