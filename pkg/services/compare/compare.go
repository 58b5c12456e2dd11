package compare

import (
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DeltaPercent is (current - previous) / previous * 100, undefined unless previous > 0.
func DeltaPercent(current, previous decimal.Decimal) domain.Delta {
	if !previous.IsPositive() {
		return domain.Delta{}
	}
	return domain.Delta{
		Percent: current.Sub(previous).Div(previous).Mul(hundred),
		Defined: true,
	}
}

func Compare(current, previous decimal.Decimal) domain.ComparisonResult {
	return domain.ComparisonResult{
		Current:  current,
		Previous: previous,
		Delta:    DeltaPercent(current, previous),
	}
}

func Profit(revenue, cost decimal.Decimal) decimal.Decimal {
	return revenue.Sub(cost)
}

// Margin is part / revenue * 100, or 0 when revenue is not positive.
func Margin(part, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return part.Div(revenue).Mul(hundred)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
