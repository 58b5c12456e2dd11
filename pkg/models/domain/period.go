package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// WholeYear selects the full calendar year instead of a single month.
const WholeYear MonthSelector = 0

// MonthSelector is either WholeYear or a month index in 1..12.
type MonthSelector int

var monthNames = []string{
	"Whole Year", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ParseMonthSelector accepts "", "whole-year", "Whole Year", "0", "1".."12" or an English month name.
func ParseMonthSelector(s string) (MonthSelector, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "0", "whole-year", "whole year", "whole_year", "year":
		return WholeYear, nil
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > 12 {
			return WholeYear, &ValidationError{Field: "month", Reason: fmt.Sprintf("month index %d out of range 1..12", n)}
		}
		return MonthSelector(n), nil
	}

	for i := 1; i < len(monthNames); i++ {
		name := strings.ToLower(monthNames[i])
		if v == name || (len(v) >= 3 && strings.HasPrefix(name, v)) {
			return MonthSelector(i), nil
		}
	}

	return WholeYear, &ValidationError{Field: "month", Reason: fmt.Sprintf("unknown month %q", s)}
}

func (m MonthSelector) IsWholeYear() bool {
	return m == WholeYear
}

func (m MonthSelector) String() string {
	if m < 0 || int(m) >= len(monthNames) {
		return fmt.Sprintf("MonthSelector(%d)", int(m))
	}
	return monthNames[m]
}

// MonthSelectors lists every selector in display order, whole year first.
func MonthSelectors() []MonthSelector {
	out := make([]MonthSelector, 0, len(monthNames))
	for i := range monthNames {
		out = append(out, MonthSelector(i))
	}
	return out
}

// PeriodWindow is the half-open interval [Start, End).
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

func (w PeriodWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the number of calendar days covered by the window.
func (w PeriodWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

func (w PeriodWindow) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("invalid period window: end (%s) must be after start (%s)",
			w.End.Format(DateLayout), w.Start.Format(DateLayout))
	}
	return nil
}

func (w PeriodWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(DateLayout), w.End.Format(DateLayout))
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth returns midnight UTC on the first day of the given month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
