package store

import (
	"database/sql"
	"time"
)

// PaymentRecord is a row of the payments table as scanned from the ledger store.
type PaymentRecord struct {
	ID          int64          `db:"id"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	Date        sql.NullTime   `db:"payment_date"`
	Value       sql.NullString `db:"payment_value"`
	Category    sql.NullString `db:"payment_category"`
	Description sql.NullString `db:"payment_description"`
	Agent       sql.NullString `db:"payment_agent"`
}

// PaymentInsert holds the columns written for a new payment. created_at and id are server-assigned.
type PaymentInsert struct {
	Date        time.Time `db:"payment_date"`
	Value       string    `db:"payment_value"`
	Category    string    `db:"payment_category"`
	Description string    `db:"payment_description"`
	Agent       string    `db:"payment_agent"`
}
