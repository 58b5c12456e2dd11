package store

// ItemsPageRequest asks the board API for one page of items.
type ItemsPageRequest struct {
	BoardID string
	Limit   int
	Cursor  string // empty on the first page
}

// ItemsPage is one page of board items and the cursor to continue from. An empty cursor ends pagination.
type ItemsPage struct {
	Cursor string
	Items  []BoardItem
}

type BoardItem struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	ColumnValues []BoardColumnValue `json:"column_values"`
}

type BoardColumnValue struct {
	Column struct {
		Title string `json:"title"`
	} `json:"column"`
	Text *string `json:"text"`
}
