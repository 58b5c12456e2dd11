package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	"github.com/de-tools/finance-atlas/pkg/store/duckdb"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentColumns = []string{
	"id", "created_at", "payment_date", "payment_value",
	"payment_category", "payment_description", "payment_agent",
}

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(sqlx.NewDb(db, "postgres"), "", time.Second)
	require.NoError(t, err)
	return s, mock
}

func TestLedgerStore_QueryRange(t *testing.T) {
	s, mock := newMockStore(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(paymentColumns).
		AddRow(1, created, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), "120.50", "Taxes", "vat", "ana").
		AddRow(2, created, nil, nil, nil, nil, "bo")

	mock.ExpectQuery(`FROM payments WHERE payment_date >= \$1 AND payment_date < \$2 ORDER BY payment_date, id`).
		WithArgs(start, end).
		WillReturnRows(rows)

	records, err := s.QueryRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].ID)
	assert.True(t, records[0].Date.Valid)
	assert.Equal(t, "120.50", records[0].Value.String)
	assert.Equal(t, "Taxes", records[0].Category.String)

	assert.False(t, records[1].Date.Valid)
	assert.False(t, records[1].Value.Valid)
	assert.False(t, records[1].Category.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_QueryRangeFailureIsQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM payments`).WillReturnError(errors.New("relation \"payments\" does not exist"))

	_, err := s.QueryRange(context.Background(), time.Now(), time.Now())
	var qErr *domain.QueryError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, "payments", qErr.Table)
}

func TestLedgerStore_FindRejectsUnknownField(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.Find(context.Background(), Filter{Field: "1=1; DROP TABLE payments; --", Op: OpEq, Value: 1})
	require.Error(t, err)

	_, err = s.Find(context.Background(), Filter{Field: "payment_agent", Op: "LIKE", Value: "%"})
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_Insert(t *testing.T) {
	s, mock := newMockStore(t)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO payments \(payment_date, payment_value, payment_category, payment_description, payment_agent\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5\)\s+RETURNING id, created_at`).
		WithArgs(date, "99.90", "Softwares", "ide", "ana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	rec, err := s.Insert(context.Background(), store.PaymentInsert{
		Date: date, Value: "99.90", Category: "Softwares", Description: "ide", Agent: "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, created, rec.CreatedAt.Time)
	assert.Equal(t, "99.90", rec.Value.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_LastEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`ORDER BY id DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	rec, err := s.Last(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestNewStore_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewStore(nil, "", 0)
	assert.Error(t, err)
	_, err = NewStore(sqlx.NewDb(db, "postgres"), "payments; DROP", 0)
	assert.Error(t, err)
	_, err = NewStore(sqlx.NewDb(db, "postgres"), "finance.payments", 0)
	assert.NoError(t, err)
}

func TestLedgerStore_DuckDB(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db, "", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	for _, p := range []store.PaymentInsert{
		{Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), Value: "10.00", Category: "Taxes", Agent: "ana"},
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Value: "20.50", Category: "Marketing", Agent: "ana"},
		{Date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), Value: "5.25", Category: "Taxes", Agent: "bo"},
		{Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Value: "1.00", Category: "Taxes", Agent: "bo"},
	} {
		_, err := s.Insert(ctx, p)
		require.NoError(t, err)
	}

	records, err := s.QueryRange(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "20.50", records[0].Value.String)
	assert.Equal(t, "5.25", records[1].Value.String)

	last, err := s.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, int64(4), last.ID)
}
