package domain

import (
	"slices"
	"sort"
)

const (
	ColumnID   = "id"
	ColumnName = "name"
)

// ColumnValue is one (column title, text) pair of a board item. Text is nil when the board
// reported no text for the column.
type ColumnValue struct {
	Title string
	Text  *string
}

// RawBoardItem is an item as returned by the board transport. Its column set is sparse.
type RawBoardItem struct {
	ID           string
	Name         string
	ColumnValues []ColumnValue
}

// Cell is a tri-state value: missing, present and empty, or present with text.
type Cell struct {
	Text    string
	Present bool
}

func Missing() Cell {
	return Cell{}
}

func Text(s string) Cell {
	return Cell{Text: s, Present: true}
}

func (c Cell) IsMissing() bool {
	return !c.Present
}

func (c Cell) String() string {
	if !c.Present {
		return "<missing>"
	}
	return c.Text
}

// FlatRow maps a column title to its cell.
type FlatRow map[string]Cell

// Get returns the cell for column, or Missing when the row has no such column.
func (r FlatRow) Get(column string) Cell {
	c, ok := r[column]
	if !ok {
		return Missing()
	}
	return c
}

// Table is a uniform set of rows sharing one column superset.
type Table struct {
	Columns []string
	Rows    []FlatRow
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// OrderColumns puts id and name first followed by the remaining titles in lexical order.
func OrderColumns(set map[string]struct{}) []string {
	rest := make([]string, 0, len(set))
	for c := range set {
		if c == ColumnID || c == ColumnName {
			continue
		}
		rest = append(rest, c)
	}
	sort.Strings(rest)
	return append([]string{ColumnID, ColumnName}, rest...)
}

// Pad materializes every row against the column superset, filling absent cells with Missing.
func (t Table) Pad() Table {
	for _, row := range t.Rows {
		for _, c := range t.Columns {
			if _, ok := row[c]; !ok {
				row[c] = Missing()
			}
		}
	}
	return t
}
