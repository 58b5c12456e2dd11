package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/models/store"
	boardstore "github.com/de-tools/finance-atlas/pkg/store/board"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/rs/zerolog"
)

const DefaultMaxItems = 10000

// Source produces the flattened table of one board.
type Source interface {
	Table(ctx context.Context, boardID string) (domain.Table, error)
}

type Flattener struct {
	transport boardstore.Transport
	pageSize  int
	maxItems  int
	metrics   *metrics.Metrics
}

func NewFlattener(transport boardstore.Transport, pageSize, maxItems int, m *metrics.Metrics) *Flattener {
	if pageSize <= 0 || pageSize > boardstore.MaxPageSize {
		pageSize = boardstore.MaxPageSize
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Flattener{
		transport: transport,
		pageSize:  pageSize,
		maxItems:  maxItems,
		metrics:   m,
	}
}

func (f *Flattener) Table(ctx context.Context, boardID string) (domain.Table, error) {
	return f.Flatten(ctx, boardID, f.maxItems)
}

// Flatten pages through a board and returns at most maxItems rows padded to the union of their
// column titles. A transport failure aborts the whole fetch.
func (f *Flattener) Flatten(ctx context.Context, boardID string, maxItems int) (domain.Table, error) {
	logger := zerolog.Ctx(ctx)

	if maxItems <= 0 {
		return domain.Table{Columns: domain.OrderColumns(nil)}, nil
	}

	var (
		rows    []domain.FlatRow
		columns = map[string]struct{}{}
		cursor  string
		pages   int
	)

	for len(rows) < maxItems {
		req := store.ItemsPageRequest{
			BoardID: boardID,
			Limit:   min(f.pageSize, maxItems-len(rows)),
			Cursor:  cursor,
		}

		page, err := f.transport.ItemsPage(ctx, req)
		if err != nil {
			f.metrics.BoardFailure(boardID)
			var fetchErr *domain.FetchError
			if errors.As(err, &fetchErr) {
				return domain.Table{}, err
			}
			return domain.Table{}, &domain.FetchError{BoardID: boardID, Err: err}
		}
		pages++
		f.metrics.BoardPage(boardID)

		for _, item := range page.Items {
			if len(rows) == maxItems {
				break
			}
			row := adapters.FlattenBoardItem(adapters.MapStoreBoardItemToDomain(item))
			for title := range row {
				columns[title] = struct{}{}
			}
			rows = append(rows, row)
		}

		if page.Cursor == "" || len(page.Items) == 0 {
			break
		}
		cursor = page.Cursor
	}

	logger.Debug().
		Str("board", boardID).
		Int("pages", pages).
		Int("rows", len(rows)).
		Msg("board flattened")

	table := domain.Table{Columns: domain.OrderColumns(columns), Rows: rows}
	return table.Pad(), nil
}

// Concat stacks tables from several boards under the union of their columns.
func Concat(tables ...domain.Table) domain.Table {
	columns := map[string]struct{}{}
	var rows []domain.FlatRow
	for _, t := range tables {
		for _, c := range t.Columns {
			columns[c] = struct{}{}
		}
		rows = append(rows, t.Rows...)
	}
	table := domain.Table{Columns: domain.OrderColumns(columns), Rows: rows}
	return table.Pad()
}

// Boards flattens every board of a profile and stacks the results.
func Boards(ctx context.Context, src Source, boards []domain.Board) (domain.Table, error) {
	tables := make([]domain.Table, 0, len(boards))
	for _, b := range boards {
		t, err := src.Table(ctx, b.ID)
		if err != nil {
			return domain.Table{}, fmt.Errorf("board %s: %w", b.Name, err)
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}
