package ledger

import (
	"fmt"
	"strings"
)

type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLt  Op = "<"
)

// Filter is a single predicate on a payments column. Field and Op are checked against an
// allow-list; Value is always bound as a parameter.
type Filter struct {
	Field string
	Op    Op
	Value any
}

var filterableFields = map[string]struct{}{
	"payment_date":     {},
	"payment_category": {},
	"payment_agent":    {},
}

var allowedOps = map[Op]struct{}{
	OpEq:  {},
	OpGte: {},
	OpLt:  {},
}

// buildWhere renders filters as a conjunction with '?' placeholders.
func buildWhere(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if _, ok := filterableFields[f.Field]; !ok {
			return "", nil, fmt.Errorf("field %q cannot be filtered", f.Field)
		}
		if _, ok := allowedOps[f.Op]; !ok {
			return "", nil, fmt.Errorf("operator %q is not supported", f.Op)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s ?", f.Field, f.Op))
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}
