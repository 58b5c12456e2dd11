package adapters

import (
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
)

func MapStoreBoardItemToDomain(item store.BoardItem) domain.RawBoardItem {
	values := make([]domain.ColumnValue, 0, len(item.ColumnValues))
	for _, cv := range item.ColumnValues {
		values = append(values, domain.ColumnValue{
			Title: cv.Column.Title,
			Text:  cv.Text,
		})
	}
	return domain.RawBoardItem{
		ID:           item.ID,
		Name:         item.Name,
		ColumnValues: values,
	}
}

// FlattenBoardItem turns a sparse item into a row keyed by column title. id and name are always
// present; a null text becomes a missing cell and a later duplicate title wins.
func FlattenBoardItem(item domain.RawBoardItem) domain.FlatRow {
	row := make(domain.FlatRow, len(item.ColumnValues)+2)
	row[domain.ColumnID] = domain.Text(item.ID)
	row[domain.ColumnName] = domain.Text(item.Name)
	for _, cv := range item.ColumnValues {
		if cv.Title == domain.ColumnID || cv.Title == domain.ColumnName {
			continue
		}
		if cv.Text == nil {
			row[cv.Title] = domain.Missing()
			continue
		}
		row[cv.Title] = domain.Text(*cv.Text)
	}
	return row
}
