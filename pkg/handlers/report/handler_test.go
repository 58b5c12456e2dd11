package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/api"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
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

type mockImporter struct {
	mock.Mock
}

func (m *mockImporter) Import(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, string(body))
	return args.Get(0).(domain.ImportResult), args.Error(1)
}

type fixture struct {
	reports  *mockReports
	ledger   *mockLedger
	importer *mockImporter
	handler  *Handler
}

func newFixture() *fixture {
	f := &fixture{reports: &mockReports{}, ledger: &mockLedger{}, importer: &mockImporter{}}
	f.handler = NewHandler(f.reports, f.ledger, f.importer, []domain.Board{{Name: "sales", ID: "42"}}, 3)
	f.handler.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestHandler_GetFinanceReport(t *testing.T) {
	f := newFixture()
	f.reports.On("Finance", mock.Anything, 2025, domain.MonthSelector(2)).Return(&domain.FinanceReport{
		Year:    2025,
		Month:   domain.MonthSelector(2),
		Revenue: domain.ComparisonResult{Current: decimal.NewFromInt(250), Previous: decimal.NewFromInt(200), Delta: domain.Delta{Percent: decimal.NewFromInt(25), Defined: true}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/finance?year=2025&month=february", nil)
	rec := httptest.NewRecorder()
	f.handler.GetFinanceReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.FinanceReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "February", body.Month)
	assert.Equal(t, "25.00%", body.Revenue.Delta)
	assert.Equal(t, "N/A", body.Cost.Delta)
}

func TestHandler_GetFinanceReportDefaultsToCurrentYear(t *testing.T) {
	f := newFixture()
	f.reports.On("Finance", mock.Anything, 2025, domain.WholeYear).Return(&domain.FinanceReport{Year: 2025}, nil)

	rec := httptest.NewRecorder()
	f.handler.GetFinanceReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/finance", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.reports.AssertExpectations(t)
}

func TestHandler_GetFinanceReportErrors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
		wantDetail string
	}{
		{name: "bad year", url: "?year=abc", wantStatus: http.StatusBadRequest},
		{name: "bad month", url: "?year=2025&month=smarch", wantStatus: http.StatusBadRequest},
		{
			name:       "board failure",
			url:        "?year=2025",
			err:        &domain.FetchError{BoardID: "42", Payload: `{"errors":[{"message":"Not Authenticated"}]}`},
			wantStatus: http.StatusBadGateway,
			wantDetail: `{"errors":[{"message":"Not Authenticated"}]}`,
		},
		{name: "unexpected", url: "?year=2025", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.err != nil {
				f.reports.On("Finance", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := httptest.NewRecorder()
			f.handler.GetFinanceReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/finance"+tt.url, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

func TestHandler_GetAccountingReport(t *testing.T) {
	f := newFixture()
	f.reports.On("Accounting", mock.Anything, 2024, domain.MonthSelector(12)).Return(&domain.AccountingReport{
		Year:  2024,
		Month: domain.MonthSelector(12),
		Costs: domain.CostSummary{Total: decimal.NewFromInt(10), Count: 1, TopCategory: "Taxes"},
	}, nil)

	rec := httptest.NewRecorder()
	f.handler.GetAccountingReport(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/accounting?year=2024&month=12", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.AccountingReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "10.00", body.Total)
	require.NotNil(t, body.TopCategory)
	assert.Equal(t, "Taxes", *body.TopCategory)
}

func TestHandler_ListPeriods(t *testing.T) {
	f := newFixture()
	rec := httptest.NewRecorder()
	f.handler.ListPeriods(rec, httptest.NewRequest(http.MethodGet, "/api/v1/periods", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body api.Periods
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []int{2023, 2024, 2025}, body.Years)
	require.Len(t, body.Months, 13)
	assert.Equal(t, api.MonthOption{Value: 0, Name: "Whole Year"}, body.Months[0])
}

func TestHandler_ListBoards(t *testing.T) {
	f := newFixture()
	rec := httptest.NewRecorder()
	f.handler.ListBoards(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boards", nil))

	var body []api.Board
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []api.Board{{Name: "sales", ID: "42"}}, body)
}

func TestHandler_CreatePayment(t *testing.T) {
	f := newFixture()
	f.ledger.On("AddPayment", mock.Anything, mock.MatchedBy(func(p domain.NewPayment) bool {
		return p.Category == "Taxes" && p.Value.Equal(decimal.RequireFromString("12.5"))
	})).Return(domain.LedgerEntry{ID: 11, Value: decimal.RequireFromString("12.5"), Category: "Taxes"}, nil)

	payload := `{"payment_date":"2024-05-01","payment_value":"12.5","payment_category":"Taxes","payment_agent":"ana"}`
	rec := httptest.NewRecorder()
	f.handler.CreatePayment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body api.Payment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "12.50", body.Value)
}

func TestHandler_CreatePaymentInvalid(t *testing.T) {
	f := newFixture()

	for _, payload := range []string{`{`, `{"payment_date":"yesterday","payment_value":"1"}`} {
		rec := httptest.NewRecorder()
		f.handler.CreatePayment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(payload)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
	}
	f.ledger.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

func TestHandler_LastPayment(t *testing.T) {
	f := newFixture()
	f.ledger.On("LastPayment", mock.Anything).Return(nil, nil).Once()
	f.ledger.On("LastPayment", mock.Anything).Return(&domain.LedgerEntry{ID: 4, Value: decimal.NewFromInt(3)}, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.LastPayment(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/last", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.LastPayment(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/last", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body api.Payment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(4), body.ID)
}

func TestHandler_ImportPayments(t *testing.T) {
	const csv = "payment_date,payment_value,payment_category,payment_description,payment_agent\n2024-01-01,1,Taxes,,ana\n"

	t.Run("raw body", func(t *testing.T) {
		f := newFixture()
		f.importer.On("Import", mock.Anything, csv).Return(domain.ImportResult{Total: 1, Inserted: 1}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/import", strings.NewReader(csv))
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		f.handler.ImportPayments(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body api.ImportResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 1, body.Inserted)
		assert.NotNil(t, body.Failures)
	})

	t.Run("multipart", func(t *testing.T) {
		f := newFixture()
		f.importer.On("Import", mock.Anything, csv).Return(domain.ImportResult{
			Total: 2, Inserted: 1, Failures: []domain.RowFailure{{Row: 2, Reason: "bad date"}},
		}, nil)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "payments.csv")
		require.NoError(t, err)
		_, _ = part.Write([]byte(csv))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		f.handler.ImportPayments(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body api.ImportResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, []api.RowFailure{{Row: 2, Reason: "bad date"}}, body.Failures)
	})

	t.Run("bad header", func(t *testing.T) {
		f := newFixture()
		f.importer.On("Import", mock.Anything, "x\n").
			Return(domain.ImportResult{}, &domain.ValidationError{Field: "header", Reason: "missing columns"})

		rec := httptest.NewRecorder()
		f.handler.ImportPayments(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments/import", strings.NewReader("x\n")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
