package api

import "time"

type Payment struct {
	ID          int64     `json:"id"`
	Date        *string   `json:"payment_date"`
	Value       string    `json:"payment_value"`
	Category    string    `json:"payment_category"`
	Description string    `json:"payment_description"`
	Agent       string    `json:"payment_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewPayment struct {
	Date        string `json:"payment_date"`
	Value       string `json:"payment_value"`
	Category    string `json:"payment_category"`
	Description string `json:"payment_description"`
	Agent       string `json:"payment_agent"`
}

type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Total    int          `json:"total"`
	Inserted int          `json:"inserted"`
	Failures []RowFailure `json:"failures"`
}
