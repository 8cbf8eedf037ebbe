package handler

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/view"
	"github.com/mcoot/scorekeeper/internal/web/templates/components"
)

// paramColumns carries the visible columns in listing URLs
const paramColumns = "cols"

// listing renders a record set through the view engine. The view state
// comes from the URL, falling back to what the session last saw.
type listing[T any] struct {
	name     string
	path     string
	schema   view.Schema[T]
	defaults view.State
	columns  func(visible ...string) *view.Columns
	cell     func(T, string) string
	id       func(T) int
	open     func(T) bool

	storage storage.Storage
	logger  *slog.Logger
}

// build applies the request's view state to records and remembers the
// resulting state for the session
func (l *listing[T]) build(ctx context.Context, session *model.Session, q url.Values, records []T) components.TableData {
	prev := l.defaults
	if session != nil {
		if stored, ok, err := l.storage.GetViewState(ctx, session.ID, l.name); err != nil {
			l.logger.Warn("could not load view state", slog.String("table", l.name), slog.String("error", err.Error()))
		} else if ok {
			prev = stored
		}
	}

	table := view.NewTable(l.schema, prev)
	table.SetRecords(records)
	table.Update(view.ParseState(q, prev))
	state := table.State()

	if session != nil {
		if err := l.storage.SaveViewState(ctx, session.ID, l.name, state); err != nil {
			l.logger.Warn("could not save view state", slog.String("table", l.name), slog.String("error", err.Error()))
		}
	}

	cols := l.columns()
	if q.Has(paramColumns) {
		cols.SetVisible(tables.ParseColumns(q[paramColumns]))
	}

	return l.render(table.View(), cols)
}

func (l *listing[T]) render(page view.Page[T], cols *view.Columns) components.TableData {
	state := page.State
	colParam := strings.Join(cols.UIDs(), ",")

	link := func(st view.State) string {
		q := st.Values()
		q.Set(paramColumns, colParam)
		return l.path + "?" + q.Encode()
	}

	data := components.TableData{
		Path:      l.path,
		State:     state,
		Total:     page.Total,
		PageCount: page.PageCount,
		FilterHidden: map[string]string{
			view.ParamSort:      state.SortField,
			view.ParamDirection: state.Direction.Short(),
			view.ParamPageSize:  strconv.Itoa(state.PageSize),
			paramColumns:        colParam,
		},
		ColumnHidden: map[string]string{
			view.ParamFilter:    state.Filter,
			view.ParamSort:      state.SortField,
			view.ParamDirection: state.Direction.Short(),
			view.ParamPage:      strconv.Itoa(state.Page),
			view.ParamPageSize:  strconv.Itoa(state.PageSize),
		},
	}

	for _, col := range cols.Visible() {
		header := components.HeaderCell{Column: col}
		if col.Sortable {
			header.SortURL = link(state.WithSort(col.UID))
			if state.SortField == col.UID {
				header.Indicator = "▲"
				if state.Direction == view.Descending {
					header.Indicator = "▼"
				}
			}
		}
		data.Headers = append(data.Headers, header)
	}

	for _, col := range cols.All() {
		data.ColumnList = append(data.ColumnList, components.ColumnToggle{Column: col, Visible: cols.IsVisible(col.UID)})
	}

	for _, item := range page.Items {
		row := components.Row{ID: l.id(item)}
		if l.open != nil {
			row.Open = l.open(item)
		}
		for _, col := range cols.Visible() {
			row.Cells = append(row.Cells, components.Cell{UID: col.UID, Text: l.cell(item, col.UID)})
		}
		data.Rows = append(data.Rows, row)
	}

	for n := 1; n <= page.PageCount; n++ {
		data.Pages = append(data.Pages, components.Link{
			Label:   strconv.Itoa(n),
			URL:     link(state.WithPage(n)),
			Current: n == state.Page,
		})
	}
	if page.HasPrev() {
		data.Prev = link(state.WithPage(min(state.Page-1, page.PageCount)))
	}
	if page.HasNext() {
		data.Next = link(state.WithPage(state.Page + 1))
	}

	for _, size := range tables.PageSizes {
		st := state
		st.PageSize = size
		st.Page = 1
		data.PageSizes = append(data.PageSizes, components.Link{
			Label:   strconv.Itoa(size),
			URL:     link(st),
			Current: size == state.PageSize,
		})
	}

	return data
}
