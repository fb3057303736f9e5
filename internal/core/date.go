package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDateFormat is returned when a string is not a valid
// calendar date in YYYY-MM-DD form.
var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// CalendarDate is a calendar day, not an instant. Keeping the triple
// explicit avoids the "one day off" bug that UTC parsing of date
// strings causes for users west of Greenwich.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
	Day   int `json:"day"`
}

// NewCalendarDate builds a date without validating it. Use Validate or
// ParseCalendarDate when the components come from user input.
func NewCalendarDate(year, month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// ParseCalendarDate parses a strict YYYY-MM-DD string. The components
// must be numeric, zero padded, and form a real calendar date.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return CalendarDate{}, ErrInvalidDateFormat
	}
	year, err := strconv.Atoi(s[0:4])
	if err != nil {
		return CalendarDate{}, ErrInvalidDateFormat
	}
	month, err := strconv.Atoi(s[5:7])
	if err != nil {
		return CalendarDate{}, ErrInvalidDateFormat
	}
	day, err := strconv.Atoi(s[8:10])
	if err != nil {
		return CalendarDate{}, ErrInvalidDateFormat
	}
	d := CalendarDate{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return CalendarDate{}, err
	}
	return d, nil
}

// Validate checks that the triple is a real calendar date.
func (d CalendarDate) Validate() error {
	if d.Year < 1 || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return ErrInvalidDateFormat
	}
	// Normalizing through time.Date catches impossible days (Feb 30, Apr 31).
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || int(t.Month()) != d.Month || t.Day() != d.Day {
		return ErrInvalidDateFormat
	}
	return nil
}

// String formats the date back to zero-padded YYYY-MM-DD. It is the
// inverse of ParseCalendarDate for every valid input.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether the date is the zero value.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Compare returns -1, 0 or 1 ordering d against other.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(d.Month, other.Month)
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly before other.
func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d CalendarDate) After(other CalendarDate) bool { return d.Compare(other) > 0 }

// Time converts the date to a time.Time at UTC midnight. Only for the
// rendering boundary; interval arithmetic stays on CalendarDate.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DateFromTime extracts the calendar day from a time.Time in its own
// location.
func DateFromTime(t time.Time) CalendarDate {
	y, m, day := t.Date()
	return CalendarDate{Year: y, Month: int(m), Day: day}
}

// Window is an inclusive calendar-day interval.
type Window struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// MonthWindow returns the window covering a full calendar month.
func MonthWindow(year, month int) Window {
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return Window{
		Start: CalendarDate{Year: year, Month: month, Day: 1},
		End:   CalendarDate{Year: year, Month: month, Day: lastDay},
	}
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d CalendarDate) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// PreviousMonth returns year and month shifted back by one calendar
// month, rolling the year over at January.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

var monthAbbrevPT = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// MonthLabel formats a year+month pair as the short pt-BR chart label,
// e.g. "mar/25".
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("?/%02d", year%100)
	}
	return fmt.Sprintf("%s/%02d", monthAbbrevPT[month-1], year%100)
}
