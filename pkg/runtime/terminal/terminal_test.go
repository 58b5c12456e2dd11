package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/de-tools/finance-atlas/pkg/services/ingest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) Finance(ctx context.Context, year int, month domain.MonthSelector) (*domain.FinanceReport, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceReport), args.Error(1)
}

func (m *mockReports) Accounting(ctx context.Context, year int, month domain.MonthSelector) (*domain.AccountingReport, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingReport), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) QueryRange(ctx context.Context, window domain.PeriodWindow) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, window)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *mockLedger) AddPayment(ctx context.Context, payment domain.NewPayment) (domain.LedgerEntry, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(domain.LedgerEntry), args.Error(1)
}

func (m *mockLedger) LastPayment(ctx context.Context) (*domain.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

type harness struct {
	reports *mockReports
	ledger  *mockLedger
	out     *bytes.Buffer
	cli     *CLI
}

func newHarness() *harness {
	h := &harness{reports: &mockReports{}, ledger: &mockLedger{}, out: &bytes.Buffer{}}
	h.cli = NewCLI(Options{
		Output: h.out,
		Provider: func(_ context.Context, _ bool) (*app.App, error) {
			return &app.App{
				Profile:  &domain.BoardProfile{SalesBoards: []domain.Board{{Name: "sales", ID: "42"}}},
				Reports:  h.reports,
				Ledger:   h.ledger,
				Importer: ingest.NewImporter(h.ledger, nil),
			}, nil
		},
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.cli.SetArgs(args)
	return h.cli.Execute(context.Background())
}

func TestCLI_Costs(t *testing.T) {
	h := newHarness()
	h.reports.On("Accounting", mock.Anything, 2025, domain.MonthSelector(3)).Return(&domain.AccountingReport{
		Year:   2025,
		Month:  domain.MonthSelector(3),
		Window: domain.PeriodWindow{Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		Costs: domain.CostSummary{
			Total:      decimal.NewFromInt(30),
			Count:      2,
			Average:    decimal.NewFromInt(15),
			ByCategory: []domain.CategoryAmount{{Category: "Taxes", Amount: decimal.NewFromInt(30)}},
		},
		Warnings: []domain.Warning{{Metric: "costs", Message: "partial"}},
	}, nil)

	require.NoError(t, h.run(t, "costs", "--year", "2025", "--month", "march"))

	out := h.out.String()
	assert.Contains(t, out, "Accounting Report 2025 March (31 days)")
	assert.Contains(t, out, "Total Amount: 30.00")
	assert.Contains(t, out, "- Taxes: 30.00")
	assert.Contains(t, out, "! costs: partial")
}

func TestCLI_ReportTable(t *testing.T) {
	h := newHarness()
	h.reports.On("Finance", mock.Anything, 2025, domain.WholeYear).Return(&domain.FinanceReport{
		Year:    2025,
		Current: domain.PeriodWindow{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		Revenue: domain.ComparisonResult{Current: decimal.NewFromInt(250), Previous: decimal.NewFromInt(200), Delta: domain.Delta{Percent: decimal.NewFromInt(25), Defined: true}},
		Profit:  decimal.NewFromInt(175),
		ByCategory: []domain.CategoryAmount{
			{Category: "Taxes", Amount: decimal.NewFromInt(75)},
		},
	}, nil)

	require.NoError(t, h.run(t, "report", "--year", "2025", "-f", "table"))

	out := h.out.String()
	assert.Contains(t, out, "Finance Report 2025 Whole Year (365 days)")
	assert.Contains(t, out, "Delta: 25.00%")
	assert.Contains(t, out, "Total Amount: 175.00")
	assert.Contains(t, out, "| Taxes")
}

func TestCLI_ReportErrors(t *testing.T) {
	t.Run("bad month", func(t *testing.T) {
		h := newHarness()
		assert.Error(t, h.run(t, "report", "--month", "smarch"))
		h.reports.AssertNotCalled(t, "Finance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad format", func(t *testing.T) {
		h := newHarness()
		h.reports.On("Finance", mock.Anything, 2024, domain.WholeYear).Return(&domain.FinanceReport{Year: 2024}, nil)
		assert.ErrorContains(t, h.run(t, "report", "--year", "2024", "-f", "yaml"), "unsupported output format")
	})

	t.Run("board failure", func(t *testing.T) {
		h := newHarness()
		h.reports.On("Finance", mock.Anything, 2023, domain.WholeYear).
			Return(nil, &domain.FetchError{BoardID: "42", Payload: "denied"})
		assert.ErrorContains(t, h.run(t, "report", "--year", "2023"), "denied")
	})
}

func TestCLI_PaymentsLast(t *testing.T) {
	h := newHarness()
	h.ledger.On("LastPayment", mock.Anything).Return(nil, nil)

	require.NoError(t, h.run(t, "payments", "last"))
	assert.Equal(t, "No data found.\n", h.out.String())
}

func TestCLI_PaymentsAdd(t *testing.T) {
	h := newHarness()
	h.ledger.On("AddPayment", mock.Anything, mock.MatchedBy(func(p domain.NewPayment) bool {
		return p.Agent == "ana" && p.Value.Equal(decimal.NewFromInt(12))
	})).Return(domain.LedgerEntry{ID: 3, Value: decimal.NewFromInt(12), Category: "Taxes", Agent: "ana"}, nil)

	require.NoError(t, h.run(t, "payments", "add",
		"--date", "2025-01-02", "--value", "12", "--category", "Taxes", "--agent", "ana"))
	assert.Contains(t, h.out.String(), `"payment_value": "12.00"`)
}

func TestCLI_PaymentsImport(t *testing.T) {
	h := newHarness()
	h.ledger.On("AddPayment", mock.Anything, mock.Anything).Return(domain.LedgerEntry{ID: 1}, nil)

	path := filepath.Join(t.TempDir(), "payments.csv")
	csv := "payment_date,payment_value,payment_category,payment_description,payment_agent\n" +
		"2025-01-02,10,Taxes,,ana\n" +
		"not-a-date,5,Other,,ana\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	require.NoError(t, h.run(t, "payments", "import", path))
	out := h.out.String()
	assert.Contains(t, out, `"total": 2`)
	assert.Contains(t, out, `"inserted": 1`)
	assert.Contains(t, out, `"row": 2`)
	h.ledger.AssertNumberOfCalls(t, "AddPayment", 1)
}

func TestCLI_Boards(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run(t, "boards"))
	assert.Equal(t, "sales\t42\n", h.out.String())
}

func TestCLI_MigrateDuckDB(t *testing.T) {
	t.Setenv("FINANCE_LEDGER_DRIVER", "duckdb")
	t.Setenv("FINANCE_LEDGER_DSN", filepath.Join(t.TempDir(), "ledger.db"))

	h := newHarness()
	require.NoError(t, h.run(t, "migrate"))
	assert.Contains(t, h.out.String(), "Ledger schema is up to date (duckdb)")
}
