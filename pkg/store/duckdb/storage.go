package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcboeker/go-duckdb/v2"
)

const DriverName = "duckdb"

const paymentsSequence = `CREATE SEQUENCE IF NOT EXISTS payments_id_seq START 1;`

const PaymentsTableSchema = `
	CREATE TABLE IF NOT EXISTS payments (
		id BIGINT PRIMARY KEY DEFAULT nextval('payments_id_seq'),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		payment_date DATE,
		payment_value DECIMAL(18, 2),
		payment_category VARCHAR,
		payment_description VARCHAR,
		payment_agent VARCHAR
	);
`

var bootQueries = []string{
	paymentsSequence,
	PaymentsTableSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens a DuckDB file (or ":memory:") with the payments schema in place.
func NewDB(settings Settings) (*sqlx.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	// An in-memory database lives per connection.
	if settings.DbPath == "" || settings.DbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return sqlx.NewDb(db, DriverName), nil
}
