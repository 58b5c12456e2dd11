package aggregate

import (
	"slices"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

func seriesFrom(byDate map[time.Time]decimal.Decimal) domain.TimeSeries {
	series := make(domain.TimeSeries, 0, len(byDate))
	for d, v := range byDate {
		series = append(series, domain.SeriesPoint{Date: d, Value: v})
	}
	slices.SortFunc(series, func(a, b domain.SeriesPoint) int {
		return a.Date.Compare(b.Date)
	})
	return series
}

// Combine outer-joins two series on date. A date present on one side only gets 0 on the other.
func Combine(revenue, cost domain.TimeSeries) []domain.CombinedPoint {
	points := map[time.Time]*domain.CombinedPoint{}
	get := func(d time.Time) *domain.CombinedPoint {
		p, ok := points[d]
		if !ok {
			p = &domain.CombinedPoint{Date: d, Revenue: decimal.Zero, Cost: decimal.Zero}
			points[d] = p
		}
		return p
	}

	for _, r := range revenue {
		p := get(r.Date)
		p.Revenue = p.Revenue.Add(r.Value)
	}
	for _, c := range cost {
		p := get(c.Date)
		p.Cost = p.Cost.Add(c.Value)
	}

	out := make([]domain.CombinedPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b domain.CombinedPoint) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
