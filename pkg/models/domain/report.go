package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the printable form of a finance or accounting report.
type Report struct {
	Title       string
	Period      TimePeriod
	Sections    []ReportSection
	TotalAmount decimal.Decimal
	Currency    string
	Warnings    []Warning
}

// TimePeriod represents a time range for the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}

// SeriesPoint is one date of a time series.
type SeriesPoint struct {
	Date  time.Time
	Value decimal.Decimal
}

// TimeSeries is ordered by date ascending, one point per date.
type TimeSeries []SeriesPoint

// CombinedPoint is one date of the revenue/cost outer join.
type CombinedPoint struct {
	Date    time.Time
	Revenue decimal.Decimal
	Cost    decimal.Decimal
}

// Delta is a percentage change, or not applicable when the baseline is not positive.
type Delta struct {
	Percent decimal.Decimal
	Defined bool
}

const NotApplicable = "N/A"

func (d Delta) String() string {
	if !d.Defined {
		return NotApplicable
	}
	return d.Percent.StringFixed(2) + "%"
}

// ComparisonResult compares one metric against the previous period.
type ComparisonResult struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
	Delta    Delta
}

// CostSummary aggregates ledger entries of one window.
type CostSummary struct {
	Total                decimal.Decimal
	Count                int
	Average              decimal.Decimal
	Series               TimeSeries
	ByCategory           []CategoryAmount
	MostFrequentCategory string
	TopCategory          string
	TopCategoryAmount    decimal.Decimal
	TopCategoryPercent   decimal.Decimal
	TopPayments          []LedgerEntry
}

// RevenueSummary aggregates board revenue rows of one window.
type RevenueSummary struct {
	Total  decimal.Decimal
	Rows   int
	Series TimeSeries
}

// FinanceReport compares revenue, cost and profit against the previous period.
type FinanceReport struct {
	Year         int
	Month        MonthSelector
	Current      PeriodWindow
	Previous     PeriodWindow
	Revenue      ComparisonResult
	Cost         ComparisonResult
	Profit       decimal.Decimal
	ProfitMargin decimal.Decimal
	CostMargin   decimal.Decimal
	Combined     []CombinedPoint
	ByCategory   []CategoryAmount
	TopPayments  []LedgerEntry
	Warnings     []Warning
}

// AccountingReport is the cost-only view of one window.
type AccountingReport struct {
	Year     int
	Month    MonthSelector
	Window   PeriodWindow
	Costs    CostSummary
	Warnings []Warning
}
