package aggregate

import (
	"slices"
	"sort"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const DefaultTopN = 5

var hundred = decimal.NewFromInt(100)

// Costs aggregates the ledger entries of one window. Entries without a date only miss the series.
func Costs(entries []domain.LedgerEntry, topN int) domain.CostSummary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	summary := domain.CostSummary{
		Total:              decimal.Zero,
		Average:            decimal.Zero,
		TopCategoryAmount:  decimal.Zero,
		TopCategoryPercent: decimal.Zero,
		Count:              len(entries),
		Series:             domain.TimeSeries{},
		ByCategory:         []domain.CategoryAmount{},
		TopPayments:        []domain.LedgerEntry{},
	}
	if len(entries) == 0 {
		return summary
	}

	byDate := map[time.Time]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	frequency := map[string]int{}

	for _, e := range entries {
		summary.Total = summary.Total.Add(e.Value)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Value)
		frequency[e.Category]++
		if e.Date != nil {
			d := domain.Day(*e.Date)
			byDate[d] = byDate[d].Add(e.Value)
		}
	}

	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(len(entries))))
	summary.Series = seriesFrom(byDate)
	summary.ByCategory = categoryBreakdown(byCategory)
	summary.MostFrequentCategory = mostFrequent(frequency)

	top := topCategory(summary.ByCategory)
	summary.TopCategory = top.Category
	summary.TopCategoryAmount = top.Amount
	if summary.Total.IsPositive() {
		summary.TopCategoryPercent = top.Amount.Div(summary.Total).Mul(hundred)
	}

	summary.TopPayments = TopPayments(entries, topN)
	return summary
}

// categoryBreakdown returns per-category sums ordered by category name.
func categoryBreakdown(byCategory map[string]decimal.Decimal) []domain.CategoryAmount {
	out := make([]domain.CategoryAmount, 0, len(byCategory))
	for c, v := range byCategory {
		out = append(out, domain.CategoryAmount{Category: c, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// mostFrequent picks the mode; ties go to the lexically smallest category.
func mostFrequent(frequency map[string]int) string {
	var (
		best  string
		count int
	)
	for c, n := range frequency {
		if n > count || (n == count && c < best) {
			best, count = c, n
		}
	}
	return best
}

// topCategory expects a name-ordered breakdown, so the first maximum is the lexically smallest.
func topCategory(breakdown []domain.CategoryAmount) domain.CategoryAmount {
	if len(breakdown) == 0 {
		return domain.CategoryAmount{Amount: decimal.Zero}
	}
	top := breakdown[0]
	for _, c := range breakdown[1:] {
		if c.Amount.GreaterThan(top.Amount) {
			top = c
		}
	}
	return top
}

// TopPayments returns the n largest entries by value. Equal values keep their input order.
func TopPayments(entries []domain.LedgerEntry, n int) []domain.LedgerEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.LedgerEntry) int {
		return b.Value.Cmp(a.Value)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
