package adapters

import (
	"strings"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

// ParseAmount reads a monetary text. Blank or non-numeric input yields zero and ok=false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeCategory maps a blank category to the Uncategorized bucket.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.UncategorizedCategory
	}
	return category
}

// MapStorePaymentToDomain converts a ledger row. valueOK is false when the stored value was not
// numeric and was coerced to zero.
func MapStorePaymentToDomain(rec store.PaymentRecord) (entry domain.LedgerEntry, valueOK bool) {
	entry = domain.LedgerEntry{
		ID:          rec.ID,
		Category:    NormalizeCategory(rec.Category.String),
		Description: rec.Description.String,
		Agent:       rec.Agent.String,
	}
	if rec.CreatedAt.Valid {
		entry.CreatedAt = rec.CreatedAt.Time
	}
	if rec.Date.Valid {
		d := domain.Day(rec.Date.Time)
		entry.Date = &d
	}
	entry.Value, valueOK = ParseAmount(rec.Value.String)
	return entry, valueOK
}

func MapDomainPaymentToStore(p domain.NewPayment) store.PaymentInsert {
	return store.PaymentInsert{
		Date:        domain.Day(p.Date),
		Value:       p.Value.StringFixed(2),
		Category:    strings.TrimSpace(p.Category),
		Description: strings.TrimSpace(p.Description),
		Agent:       strings.TrimSpace(p.Agent),
	}
}

// ParseDate accepts ISO dates, US month/day/year and RFC3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{domain.DateLayout, "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Day(t), true
		}
	}
	return time.Time{}, false
}
