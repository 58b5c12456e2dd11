package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/store/ledger"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service exposes the payments ledger in domain terms.
type Service interface {
	QueryRange(ctx context.Context, window domain.PeriodWindow) ([]domain.LedgerEntry, error)
	AddPayment(ctx context.Context, payment domain.NewPayment) (domain.LedgerEntry, error)
	LastPayment(ctx context.Context) (*domain.LedgerEntry, error)
}

type service struct {
	store    ledger.Store
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func NewService(store ledger.Store, m *metrics.Metrics) Service {
	return &service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  m,
	}
}

func (s *service) QueryRange(ctx context.Context, window domain.PeriodWindow) ([]domain.LedgerEntry, error) {
	logger := zerolog.Ctx(ctx)

	if err := window.Validate(); err != nil {
		return nil, &domain.ValidationError{Field: "window", Reason: err.Error()}
	}

	records, err := s.store.QueryRange(ctx, window.Start, window.End)
	s.metrics.LedgerQuery(err)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LedgerEntry, 0, len(records))
	for _, rec := range records {
		entry, ok := adapters.MapStorePaymentToDomain(rec)
		if !ok {
			logger.Debug().
				Int64("id", rec.ID).
				Str("value", rec.Value.String).
				Msg("payment value is not numeric, counted as 0")
		}
		if entry.Date == nil {
			logger.Debug().Int64("id", rec.ID).Msg("payment has no date, excluded from series")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) AddPayment(ctx context.Context, payment domain.NewPayment) (domain.LedgerEntry, error) {
	logger := zerolog.Ctx(ctx)

	payment.Category = strings.TrimSpace(payment.Category)
	payment.Description = strings.TrimSpace(payment.Description)
	payment.Agent = strings.TrimSpace(payment.Agent)

	if err := s.validatePayment(payment); err != nil {
		return domain.LedgerEntry{}, err
	}

	rec, err := s.store.Insert(ctx, adapters.MapDomainPaymentToStore(payment))
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	entry, _ := adapters.MapStorePaymentToDomain(rec)
	logger.Info().
		Int64("id", entry.ID).
		Str("category", entry.Category).
		Str("value", entry.Value.StringFixed(2)).
		Msg("payment recorded")
	return entry, nil
}

// validatePayment checks a payment before it is written. The first failing field is reported.
func (s *service) validatePayment(payment domain.NewPayment) error {
	if payment.Value.IsNegative() {
		return &domain.ValidationError{Field: "value", Reason: "must not be negative"}
	}

	err := s.validate.Struct(payment)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domain.ValidationError{
			Field:  strings.ToLower(verrs[0].Field()),
			Reason: validationMessage(verrs[0]),
		}
	}
	return fmt.Errorf("validate payment: %w", err)
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "failed " + e.Tag() + " check"
	}
}

func (s *service) LastPayment(ctx context.Context) (*domain.LedgerEntry, error) {
	rec, err := s.store.Last(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	entry, _ := adapters.MapStorePaymentToDomain(*rec)
	return &entry, nil
}
