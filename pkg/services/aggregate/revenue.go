package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultDateColumn   = "Pmt Date"
	DefaultAmountColumn = "Total Amount"
)

// RevenueColumns names the board columns carrying the payment date and amount.
type RevenueColumns struct {
	Date   string
	Amount string
}

func (c RevenueColumns) withDefaults() RevenueColumns {
	if c.Date == "" {
		c.Date = DefaultDateColumn
	}
	if c.Amount == "" {
		c.Amount = DefaultAmountColumn
	}
	return c
}

// Revenue sums the rows of table dated inside window. Rows whose date cell is missing or not an
// ISO date belong to no window. A missing amount column yields a zero total and a warning.
func Revenue(ctx context.Context, table domain.Table, window domain.PeriodWindow, cols RevenueColumns) (domain.RevenueSummary, []domain.Warning) {
	logger := zerolog.Ctx(ctx)
	cols = cols.withDefaults()

	summary := domain.RevenueSummary{Total: decimal.Zero, Series: domain.TimeSeries{}}
	var warnings []domain.Warning

	if table.Len() == 0 {
		return summary, nil
	}
	if !table.HasColumn(cols.Date) {
		return summary, []domain.Warning{{
			Metric:  "revenue",
			Message: fmt.Sprintf("board has no %q column; revenue rows cannot be dated", cols.Date),
		}}
	}
	if !table.HasColumn(cols.Amount) {
		warnings = append(warnings, domain.Warning{
			Metric:  "revenue",
			Message: fmt.Sprintf("board has no %q column; amounts count as 0", cols.Amount),
		})
	}

	byDate := map[time.Time]decimal.Decimal{}
	for _, row := range table.Rows {
		dateCell := row.Get(cols.Date)
		if dateCell.IsMissing() {
			continue
		}
		date, err := time.Parse(domain.DateLayout, dateCell.Text)
		if err != nil {
			logger.Debug().
				Str("id", row.Get(domain.ColumnID).Text).
				Str("value", dateCell.Text).
				Msg("revenue row has unparseable date, excluded")
			continue
		}
		if !window.Contains(date) {
			continue
		}

		amountCell := row.Get(cols.Amount)
		amount, ok := adapters.ParseAmount(amountCell.Text)
		if !ok && !amountCell.IsMissing() && amountCell.Text != "" {
			logger.Debug().
				Str("id", row.Get(domain.ColumnID).Text).
				Str("value", amountCell.Text).
				Msg("revenue amount is not numeric, counted as 0")
		}

		summary.Total = summary.Total.Add(amount)
		summary.Rows++
		byDate[date] = byDate[date].Add(amount)
	}

	summary.Series = seriesFrom(byDate)
	return summary, warnings
}
