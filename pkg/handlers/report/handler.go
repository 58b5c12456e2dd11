package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/api"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/ledger"
	"github.com/de-tools/finance-atlas/pkg/services/period"
	"github.com/de-tools/finance-atlas/pkg/services/report"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 10 << 20

type Importer interface {
	Import(ctx context.Context, r io.Reader) (domain.ImportResult, error)
}

type Handler struct {
	reports  report.Service
	ledger   ledger.Service
	importer Importer
	boards   []domain.Board
	years    int
	now      func() time.Time
}

func NewHandler(reports report.Service, ledger ledger.Service, importer Importer, boards []domain.Board, years int) *Handler {
	return &Handler{
		reports:  reports,
		ledger:   ledger,
		importer: importer,
		boards:   boards,
		years:    years,
		now:      time.Now,
	}
}

func (h *Handler) GetFinanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, month, ok := h.periodParams(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Finance(ctx, year, month)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapFinanceReportDomainToApi(*rep))
}

func (h *Handler) GetAccountingReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, month, ok := h.periodParams(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Accounting(ctx, year, month)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapAccountingReportDomainToApi(*rep))
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	months := make([]api.MonthOption, 0, 13)
	for _, m := range domain.MonthSelectors() {
		months = append(months, api.MonthOption{Value: int(m), Name: m.String()})
	}
	writeJSON(r.Context(), w, http.StatusOK, api.Periods{
		Years:  period.Years(h.now(), h.years),
		Months: months,
	})
}

func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards := make([]api.Board, 0, len(h.boards))
	for _, b := range h.boards {
		boards = append(boards, api.Board{Name: b.Name, ID: b.ID})
	}
	writeJSON(r.Context(), w, http.StatusOK, boards)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.NewPayment
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Field: "body", Reason: "invalid json"})
		return
	}

	payment, err := adapters.MapNewPaymentApiToDomain(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.ledger.AddPayment(ctx, payment)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, adapters.MapPaymentDomainToApi(entry))
}

func (h *Handler) LastPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := h.ledger.LastPayment(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if entry == nil {
		writeJSON(ctx, w, http.StatusNotFound, api.ErrorResponse{Error: "No data found."})
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapPaymentDomainToApi(*entry))
}

// ImportPayments accepts either a multipart form with a "file" field or a raw text/csv body.
func (h *Handler) ImportPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(ctx, w, &domain.ValidationError{Field: "file", Reason: err.Error()})
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.importer.Import(ctx, body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapImportResultDomainToApi(result))
}

func (h *Handler) periodParams(w http.ResponseWriter, r *http.Request) (int, domain.MonthSelector, bool) {
	q := r.URL.Query()

	year := h.now().Year()
	if y := q.Get("year"); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			writeError(r.Context(), w, &domain.ValidationError{Field: "year", Reason: "not a number"})
			return 0, 0, false
		}
		year = n
	}

	month, err := domain.ParseMonthSelector(q.Get("month"))
	if err != nil {
		writeError(r.Context(), w, err)
		return 0, 0, false
	}
	return year, month, true
}

// writeError maps the error taxonomy onto status codes: validation 400, board fetch 502,
// ledger query 503, anything else 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := zerolog.Ctx(ctx)

	var (
		verr   *domain.ValidationError
		fetch  *domain.FetchError
		query  *domain.QueryError
		status = http.StatusInternalServerError
		resp   = api.ErrorResponse{Error: "internal error"}
	)

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp = api.ErrorResponse{Error: verr.Error()}
	case errors.As(err, &fetch):
		status = http.StatusBadGateway
		resp = api.ErrorResponse{Error: fetch.Error(), Detail: fetch.Payload}
	case errors.As(err, &query):
		status = http.StatusServiceUnavailable
		resp = api.ErrorResponse{Error: query.Error()}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(ctx, w, status, resp)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
