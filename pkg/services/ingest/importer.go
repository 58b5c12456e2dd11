package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/ledger"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	colDate        = "payment_date"
	colValue       = "payment_value"
	colCategory    = "payment_category"
	colDescription = "payment_description"
	colAgent       = "payment_agent"
)

var requiredColumns = []string{colDate, colValue, colCategory, colDescription, colAgent}

// Importer loads payment rows from CSV into the ledger one row at a time.
type Importer struct {
	ledger  ledger.Service
	metrics *metrics.Metrics
}

func NewImporter(svc ledger.Service, m *metrics.Metrics) *Importer {
	return &Importer{ledger: svc, metrics: m}
}

// Import reads a header row followed by payment rows. A bad row is recorded as a failure and the
// rest continue; only an unreadable header aborts.
func (i *Importer) Import(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	logger := zerolog.Ctx(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.ImportResult{}, &domain.ValidationError{Field: "file", Reason: "empty csv"}
	}
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{Failures: []domain.RowFailure{}}
	// Data rows are numbered from 1; the header is not counted.
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Total++

		if err != nil {
			result.Failures = append(result.Failures, domain.RowFailure{Row: row, Reason: err.Error()})
			i.metrics.ImportedRow(false)
			continue
		}

		payment, err := parseRow(record, index)
		if err == nil {
			_, err = i.ledger.AddPayment(ctx, payment)
		}
		if err != nil {
			logger.Debug().Int("row", row).Err(err).Msg("payment row rejected")
			result.Failures = append(result.Failures, domain.RowFailure{Row: row, Reason: err.Error()})
			i.metrics.ImportedRow(false)
			continue
		}

		result.Inserted++
		i.metrics.ImportedRow(true)
	}

	logger.Info().
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("failed", len(result.Failures)).
		Msg("payments imported")
	return result, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{
			Field:  "header",
			Reason: "missing columns: " + strings.Join(missing, ", "),
		}
	}
	return index, nil
}

func parseRow(record []string, index map[string]int) (domain.NewPayment, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, ok := adapters.ParseDate(field(colDate))
	if !ok {
		return domain.NewPayment{}, &domain.ValidationError{
			Field:  colDate,
			Reason: fmt.Sprintf("cannot parse %q as a date", field(colDate)),
		}
	}

	value, err := decimal.NewFromString(field(colValue))
	if err != nil {
		return domain.NewPayment{}, &domain.ValidationError{
			Field:  colValue,
			Reason: fmt.Sprintf("cannot parse %q as a number", field(colValue)),
		}
	}

	return domain.NewPayment{
		Date:        date,
		Value:       value,
		Category:    field(colCategory),
		Description: field(colDescription),
		Agent:       field(colAgent),
	}, nil
}
