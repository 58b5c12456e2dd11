package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const (
	DefaultTable   = "payments"
	DefaultTimeout = 30 * time.Second
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store reads and writes payment rows. Read failures are returned as *domain.QueryError.
type Store interface {
	Find(ctx context.Context, filters ...Filter) ([]store.PaymentRecord, error)
	QueryRange(ctx context.Context, start, end time.Time) ([]store.PaymentRecord, error)
	Insert(ctx context.Context, payment store.PaymentInsert) (store.PaymentRecord, error)
	Last(ctx context.Context) (*store.PaymentRecord, error)
}

type ledgerStore struct {
	db      *sqlx.DB
	table   string
	timeout time.Duration
}

func NewStore(db *sqlx.DB, table string, timeout time.Duration) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ledgerStore{db: db, table: table, timeout: timeout}, nil
}

func (s *ledgerStore) selectColumns() string {
	return fmt.Sprintf(`
		SELECT id, created_at, payment_date,
			CAST(payment_value AS VARCHAR) AS payment_value,
			payment_category, payment_description, payment_agent
		FROM %s`, s.table)
}

func (s *ledgerStore) Find(ctx context.Context, filters ...Filter) ([]store.PaymentRecord, error) {
	logger := zerolog.Ctx(ctx)

	where, args, err := buildWhere(filters)
	if err != nil {
		return nil, &domain.QueryError{Table: s.table, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := s.db.Rebind(s.selectColumns() + where + " ORDER BY payment_date, id")
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.QueryError{Table: s.table, Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close payments rows")
		}
	}()

	records := make([]store.PaymentRecord, 0)
	for rows.Next() {
		var rec store.PaymentRecord
		if err := rows.StructScan(&rec); err != nil {
			return nil, &domain.QueryError{Table: s.table, Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.QueryError{Table: s.table, Err: err}
	}

	logger.Debug().Str("table", s.table).Int("rows", len(records)).Msg("payments loaded")
	return records, nil
}

// QueryRange returns payments dated in [start, end).
func (s *ledgerStore) QueryRange(ctx context.Context, start, end time.Time) ([]store.PaymentRecord, error) {
	return s.Find(ctx,
		Filter{Field: "payment_date", Op: OpGte, Value: start},
		Filter{Field: "payment_date", Op: OpLt, Value: end},
	)
}

func (s *ledgerStore) Insert(ctx context.Context, payment store.PaymentInsert) (store.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (payment_date, payment_value, payment_category, payment_description, payment_agent)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`, s.table))

	rec := store.PaymentRecord{
		Date:        sql.NullTime{Time: payment.Date, Valid: true},
		Value:       sql.NullString{String: payment.Value, Valid: true},
		Category:    sql.NullString{String: payment.Category, Valid: true},
		Description: sql.NullString{String: payment.Description, Valid: true},
		Agent:       sql.NullString{String: payment.Agent, Valid: true},
	}

	err := s.db.QueryRowxContext(ctx, query,
		payment.Date, payment.Value, payment.Category, payment.Description, payment.Agent).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return store.PaymentRecord{}, fmt.Errorf("failed to insert payment: %w", err)
	}
	return rec, nil
}

// Last returns the payment with the highest id, or nil when the table is empty.
func (s *ledgerStore) Last(ctx context.Context) (*store.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rec store.PaymentRecord
	err := s.db.QueryRowxContext(ctx, s.selectColumns()+" ORDER BY id DESC LIMIT 1").StructScan(&rec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.QueryError{Table: s.table, Err: err}
	}
	return &rec, nil
}
