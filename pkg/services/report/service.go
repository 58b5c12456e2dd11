package report

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/aggregate"
	"github.com/de-tools/finance-atlas/pkg/services/board"
	"github.com/de-tools/finance-atlas/pkg/services/compare"
	"github.com/de-tools/finance-atlas/pkg/services/ledger"
	"github.com/de-tools/finance-atlas/pkg/services/period"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/rs/zerolog"
)

const (
	MetricCost      = "cost"
	MetricCostDelta = "cost_delta"
	MetricCosts     = "costs"
)

// Service builds period-comparative reports from the sales boards and the payments ledger.
type Service interface {
	Finance(ctx context.Context, year int, month domain.MonthSelector) (*domain.FinanceReport, error)
	Accounting(ctx context.Context, year int, month domain.MonthSelector) (*domain.AccountingReport, error)
}

type Config struct {
	Boards  []domain.Board
	Columns aggregate.RevenueColumns
	TopN    int
}

type service struct {
	boards  board.Source
	ledger  ledger.Service
	config  Config
	metrics *metrics.Metrics
}

func NewService(boards board.Source, ledger ledger.Service, config Config, m *metrics.Metrics) Service {
	if config.TopN <= 0 {
		config.TopN = aggregate.DefaultTopN
	}
	return &service{
		boards:  boards,
		ledger:  ledger,
		config:  config,
		metrics: m,
	}
}

// Finance fails on a board fetch error. A ledger failure leaves that window without costs and
// attaches a warning to the affected metric.
func (s *service) Finance(ctx context.Context, year int, month domain.MonthSelector) (*domain.FinanceReport, error) {
	logger := zerolog.Ctx(ctx)
	defer s.metrics.ObserveReport("finance", time.Now())

	current, previous, err := period.Windows(year, month)
	if err != nil {
		return nil, err
	}

	table, err := board.Boards(ctx, s.boards, s.config.Boards)
	if err != nil {
		return nil, err
	}

	var warnings []domain.Warning

	revenueNow, w := aggregate.Revenue(ctx, table, current, s.config.Columns)
	warnings = append(warnings, w...)
	revenuePrev, _ := aggregate.Revenue(ctx, table, previous, s.config.Columns)

	entriesNow, w, err := s.entries(ctx, current, MetricCost)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	entriesPrev, w, err := s.entries(ctx, previous, MetricCostDelta)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	costsNow := aggregate.Costs(entriesNow, s.config.TopN)
	costsPrev := aggregate.Costs(entriesPrev, s.config.TopN)

	profit := compare.Profit(revenueNow.Total, costsNow.Total)
	report := &domain.FinanceReport{
		Year:         year,
		Month:        month,
		Current:      current,
		Previous:     previous,
		Revenue:      compare.Compare(revenueNow.Total, revenuePrev.Total),
		Cost:         compare.Compare(costsNow.Total, costsPrev.Total),
		Profit:       profit,
		ProfitMargin: compare.Margin(profit, revenueNow.Total),
		CostMargin:   compare.Margin(costsNow.Total, revenueNow.Total),
		Combined:     aggregate.Combine(revenueNow.Series, costsNow.Series),
		ByCategory:   costsNow.ByCategory,
		TopPayments:  costsNow.TopPayments,
		Warnings:     warnings,
	}

	logger.Info().
		Int("year", year).
		Str("month", month.String()).
		Int("revenue_rows", revenueNow.Rows).
		Int("payments", costsNow.Count).
		Int("warnings", len(warnings)).
		Msg("finance report computed")

	return report, nil
}

func (s *service) Accounting(ctx context.Context, year int, month domain.MonthSelector) (*domain.AccountingReport, error) {
	defer s.metrics.ObserveReport("accounting", time.Now())

	current, _, err := period.Windows(year, month)
	if err != nil {
		return nil, err
	}

	entries, warnings, err := s.entries(ctx, current, MetricCosts)
	if err != nil {
		return nil, err
	}

	return &domain.AccountingReport{
		Year:     year,
		Month:    month,
		Window:   current,
		Costs:    aggregate.Costs(entries, s.config.TopN),
		Warnings: warnings,
	}, nil
}

// entries loads one window from the ledger. Query errors degrade to no entries plus a warning.
func (s *service) entries(ctx context.Context, window domain.PeriodWindow, metric string) ([]domain.LedgerEntry, []domain.Warning, error) {
	entries, err := s.ledger.QueryRange(ctx, window)
	if err == nil {
		return entries, nil, nil
	}

	var qErr *domain.QueryError
	if !errors.As(err, &qErr) {
		return nil, nil, err
	}

	zerolog.Ctx(ctx).Warn().
		Err(err).
		Str("window", window.String()).
		Str("metric", metric).
		Msg("ledger unavailable, continuing without costs")

	return nil, []domain.Warning{{
		Metric:  metric,
		Message: qErr.Error(),
	}}, nil
}
