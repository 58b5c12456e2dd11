package adapters

import (
	"fmt"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
)

func printablePeriod(w domain.PeriodWindow) domain.TimePeriod {
	return domain.TimePeriod{Start: w.Start, End: w.End, Duration: w.Days()}
}

func comparisonSection(title string, c domain.ComparisonResult) domain.ReportSection {
	return domain.ReportSection{
		Title: title,
		Summary: map[string]interface{}{
			"Current":  money(c.Current),
			"Previous": money(c.Previous),
			"Delta":    c.Delta.String(),
		},
	}
}

func categorySection(categories []domain.CategoryAmount) domain.ReportSection {
	s := domain.ReportSection{Title: "Costs by Category"}
	for _, c := range categories {
		s.Details = append(s.Details, domain.ReportDetail{Name: c.Category, Value: money(c.Amount)})
	}
	return s
}

func paymentsSection(entries []domain.LedgerEntry) domain.ReportSection {
	s := domain.ReportSection{Title: "Top Payments"}
	for _, e := range entries {
		date := "unknown date"
		if e.Date != nil {
			date = e.Date.Format(domain.DateLayout)
		}
		s.Details = append(s.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("#%d %s", e.ID, e.Category),
			Value:       money(e.Value),
			Unit:        date,
			Description: e.Description,
		})
	}
	return s
}

// MapFinanceReportToPrintable lays a finance report out for terminal output.
func MapFinanceReportToPrintable(r domain.FinanceReport) *domain.Report {
	sections := []domain.ReportSection{
		comparisonSection("Revenue", r.Revenue),
		comparisonSection("Cost", r.Cost),
		{
			Title: "Profit",
			Summary: map[string]interface{}{
				"Profit":        money(r.Profit),
				"Profit Margin": percent(r.ProfitMargin),
				"Cost Margin":   percent(r.CostMargin),
			},
		},
	}
	if len(r.ByCategory) > 0 {
		sections = append(sections, categorySection(r.ByCategory))
	}
	if len(r.TopPayments) > 0 {
		sections = append(sections, paymentsSection(r.TopPayments))
	}

	return &domain.Report{
		Title:       fmt.Sprintf("Finance Report %d %s", r.Year, r.Month),
		Period:      printablePeriod(r.Current),
		Sections:    sections,
		TotalAmount: r.Profit,
		Warnings:    r.Warnings,
	}
}

// MapAccountingReportToPrintable lays an accounting report out for terminal output.
func MapAccountingReportToPrintable(r domain.AccountingReport) *domain.Report {
	c := r.Costs
	summary := map[string]interface{}{
		"Payments": c.Count,
		"Average":  money(c.Average),
	}
	if c.MostFrequentCategory != "" {
		summary["Most Frequent Category"] = c.MostFrequentCategory
	}
	if c.TopCategory != "" {
		summary["Top Category"] = fmt.Sprintf("%s (%s, %s)", c.TopCategory, money(c.TopCategoryAmount), percent(c.TopCategoryPercent))
	}

	sections := []domain.ReportSection{{Title: "Summary", Summary: summary}}
	if len(c.ByCategory) > 0 {
		sections = append(sections, categorySection(c.ByCategory))
	}
	if len(c.TopPayments) > 0 {
		sections = append(sections, paymentsSection(c.TopPayments))
	}

	return &domain.Report{
		Title:       fmt.Sprintf("Accounting Report %d %s", r.Year, r.Month),
		Period:      printablePeriod(r.Window),
		Sections:    sections,
		TotalAmount: c.Total,
		Warnings:    r.Warnings,
	}
}
