package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/view"
)

// listFlags selects the view state of a listing command
type listFlags struct {
	filter  string
	sort    string
	desc    bool
	page    int
	size    int
	columns []string
}

func (f *listFlags) register(cmd *cobra.Command, defaults view.State) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "Only show records containing this text (case-insensitive)")
	cmd.Flags().StringVar(&f.sort, "sort", defaults.SortField, "Field to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", defaults.Direction == view.Descending, "Sort descending")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&f.size, "size", defaults.PageSize, "Records per page")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Columns to show (default all)")
}

func (f *listFlags) state() view.State {
	dir := view.Ascending
	if f.desc {
		dir = view.Descending
	}
	return view.State{
		Filter:    f.filter,
		SortField: f.sort,
		Direction: dir,
		Page:      f.page,
		PageSize:  f.size,
	}
}

// list runs records through the view engine and returns the page to print
func list[T any](f *listFlags, schema view.Schema[T], columns func(...string) *view.Columns, records []T) Listing[T] {
	table := view.NewTable(schema, f.state())
	table.SetRecords(records)
	return newListing(table.View(), columns(tables.ParseColumns(f.columns)...))
}
