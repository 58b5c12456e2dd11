package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const UncategorizedCategory = "Uncategorized"

// DefaultCategories are offered to payment entry clients. The category set itself stays open.
var DefaultCategories = []string{
	"Employee",
	"Profit Withdraw",
	"Softwares",
	"Operating Costs",
	"Inbound Development",
	"Marketing",
	"Taxes",
	"Outbound Development",
	"Other",
}

// LedgerEntry is a cost/payment row owned by the ledger store.
type LedgerEntry struct {
	ID          int64
	Date        *time.Time // nil when the stored date could not be read
	Value       decimal.Decimal
	Category    string
	Description string
	Agent       string
	CreatedAt   time.Time
}

// NewPayment is a payment about to be written to the ledger.
type NewPayment struct {
	Date        time.Time       `validate:"required"`
	Value       decimal.Decimal `validate:"-"`
	Category    string          `validate:"required,max=100"`
	Description string          `validate:"max=500"`
	Agent       string          `validate:"required,max=100"`
}

// CategoryAmount is a category with its summed value.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// RowFailure describes a single import row that could not be written.
type RowFailure struct {
	Row    int
	Reason string
}

// ImportResult summarizes a CSV ingestion run.
type ImportResult struct {
	Total    int
	Inserted int
	Failures []RowFailure
}
