package adapters

import (
	"github.com/de-tools/finance-atlas/pkg/models/api"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func MapPeriodDomainToApi(w domain.PeriodWindow) api.Period {
	return api.Period{
		Start: w.Start.Format(domain.DateLayout),
		End:   w.End.Format(domain.DateLayout),
	}
}

func MapComparisonDomainToApi(c domain.ComparisonResult) api.Comparison {
	return api.Comparison{
		Current:  money(c.Current),
		Previous: money(c.Previous),
		Delta:    c.Delta.String(),
	}
}

func MapPaymentDomainToApi(e domain.LedgerEntry) api.Payment {
	p := api.Payment{
		ID:          e.ID,
		Value:       money(e.Value),
		Category:    e.Category,
		Description: e.Description,
		Agent:       e.Agent,
		CreatedAt:   e.CreatedAt,
	}
	if e.Date != nil {
		d := e.Date.Format(domain.DateLayout)
		p.Date = &d
	}
	return p
}

func mapPayments(entries []domain.LedgerEntry) []api.Payment {
	out := make([]api.Payment, 0, len(entries))
	for _, e := range entries {
		out = append(out, MapPaymentDomainToApi(e))
	}
	return out
}

func mapCategories(categories []domain.CategoryAmount) []api.CategoryAmount {
	out := make([]api.CategoryAmount, 0, len(categories))
	for _, c := range categories {
		out = append(out, api.CategoryAmount{Category: c.Category, Amount: money(c.Amount)})
	}
	return out
}

func mapWarnings(warnings []domain.Warning) []api.Warning {
	out := make([]api.Warning, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, api.Warning{Metric: w.Metric, Message: w.Message})
	}
	return out
}

func MapFinanceReportDomainToApi(r domain.FinanceReport) api.FinanceReport {
	combined := make([]api.CombinedPoint, 0, len(r.Combined))
	for _, p := range r.Combined {
		combined = append(combined, api.CombinedPoint{
			Date:    p.Date.Format(domain.DateLayout),
			Revenue: money(p.Revenue),
			Cost:    money(p.Cost),
		})
	}

	return api.FinanceReport{
		Year:         r.Year,
		Month:        r.Month.String(),
		Current:      MapPeriodDomainToApi(r.Current),
		Previous:     MapPeriodDomainToApi(r.Previous),
		Revenue:      MapComparisonDomainToApi(r.Revenue),
		Cost:         MapComparisonDomainToApi(r.Cost),
		Profit:       money(r.Profit),
		ProfitMargin: percent(r.ProfitMargin),
		CostMargin:   percent(r.CostMargin),
		Combined:     combined,
		ByCategory:   mapCategories(r.ByCategory),
		TopPayments:  mapPayments(r.TopPayments),
		Warnings:     mapWarnings(r.Warnings),
	}
}

func MapAccountingReportDomainToApi(r domain.AccountingReport) api.AccountingReport {
	series := make([]api.SeriesPoint, 0, len(r.Costs.Series))
	for _, p := range r.Costs.Series {
		series = append(series, api.SeriesPoint{Date: p.Date.Format(domain.DateLayout), Value: money(p.Value)})
	}

	return api.AccountingReport{
		Year:                 r.Year,
		Month:                r.Month.String(),
		Period:               MapPeriodDomainToApi(r.Window),
		Total:                money(r.Costs.Total),
		Count:                r.Costs.Count,
		Average:              money(r.Costs.Average),
		MostFrequentCategory: optional(r.Costs.MostFrequentCategory),
		TopCategory:          optional(r.Costs.TopCategory),
		TopCategoryAmount:    money(r.Costs.TopCategoryAmount),
		TopCategoryPercent:   percent(r.Costs.TopCategoryPercent),
		Series:               series,
		ByCategory:           mapCategories(r.Costs.ByCategory),
		TopPayments:          mapPayments(r.Costs.TopPayments),
		Warnings:             mapWarnings(r.Warnings),
	}
}

func MapImportResultDomainToApi(r domain.ImportResult) api.ImportResult {
	failures := make([]api.RowFailure, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, api.RowFailure{Row: f.Row, Reason: f.Reason})
	}
	return api.ImportResult{Total: r.Total, Inserted: r.Inserted, Failures: failures}
}

// MapNewPaymentApiToDomain parses a payment request. Format problems come back as validation errors.
func MapNewPaymentApiToDomain(p api.NewPayment) (domain.NewPayment, error) {
	date, ok := ParseDate(p.Date)
	if !ok {
		return domain.NewPayment{}, &domain.ValidationError{Field: "payment_date", Reason: "expected YYYY-MM-DD"}
	}
	value, err := decimal.NewFromString(p.Value)
	if err != nil {
		return domain.NewPayment{}, &domain.ValidationError{Field: "payment_value", Reason: "not a number"}
	}
	return domain.NewPayment{
		Date:        date,
		Value:       value,
		Category:    p.Category,
		Description: p.Description,
		Agent:       p.Agent,
	}, nil
}
