package period

import (
	"fmt"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
)

const (
	minYear = 1900
	maxYear = 9999
)

// Windows returns the current window for (year, month) and the immediately preceding
// comparison window of the same granularity.
func Windows(year int, month domain.MonthSelector) (current, previous domain.PeriodWindow, err error) {
	if year < minYear || year > maxYear {
		return current, previous, &domain.ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("%d out of range %d..%d", year, minYear, maxYear),
		}
	}
	if month < domain.WholeYear || month > 12 {
		return current, previous, &domain.ValidationError{
			Field:  "month",
			Reason: fmt.Sprintf("month index %d out of range 1..12", int(month)),
		}
	}

	if month.IsWholeYear() {
		current = domain.PeriodWindow{
			Start: domain.FirstOfMonth(year, time.January),
			End:   domain.FirstOfMonth(year+1, time.January),
		}
		previous = domain.PeriodWindow{
			Start: domain.FirstOfMonth(year-1, time.January),
			End:   domain.FirstOfMonth(year, time.January),
		}
		return current, previous, nil
	}

	current = Current(year, month)
	previous = domain.PeriodWindow{
		Start: previousStart(year, month),
		End:   previousEnd(year, month),
	}
	return current, previous, nil
}

// Current returns [first of (year, month), first of the next month).
func Current(year int, month domain.MonthSelector) domain.PeriodWindow {
	m := int(month)
	endYear, endMonth := year, m+1
	if m == 12 {
		endYear, endMonth = year+1, 1
	}
	return domain.PeriodWindow{
		Start: domain.FirstOfMonth(year, time.Month(m)),
		End:   domain.FirstOfMonth(endYear, time.Month(endMonth)),
	}
}

// previousStart and previousEnd each apply the January rule on their own.
func previousStart(year int, month domain.MonthSelector) time.Time {
	if month == 1 {
		return domain.FirstOfMonth(year-1, time.December)
	}
	return domain.FirstOfMonth(year, time.Month(month-1))
}

func previousEnd(year int, month domain.MonthSelector) time.Time {
	if month == 1 {
		return domain.FirstOfMonth(year, time.January)
	}
	return domain.FirstOfMonth(year, time.Month(month))
}

// Years returns the selectable years ending at the year of now, oldest first.
func Years(now time.Time, count int) []int {
	if count < 1 {
		count = 1
	}
	last := now.Year()
	years := make([]int, 0, count)
	for y := last - count + 1; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
