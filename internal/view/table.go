package view

// Table holds a record set and its view state, and keeps the filtered and
// sorted sequence cached between page changes.
//
// Changing the records or the sort re-runs the whole pipeline. Changing the
// filter or the page size also resets the page to 1, since the old page
// number no longer means anything. Changing only the page reuses the cache.
type Table[T any] struct {
	schema  Schema[T]
	records []T
	state   State
	sorted  []T
}

// NewTable creates a table with an initial state and no records
func NewTable[T any](schema Schema[T], initial State) *Table[T] {
	t := &Table[T]{
		schema: schema,
		state:  initial.normalized(),
	}
	t.recompute()
	return t
}

// State returns the current view state
func (t *Table[T]) State() State {
	return t.state
}

// SetRecords replaces the underlying record set
func (t *Table[T]) SetRecords(records []T) {
	t.records = records
	t.recompute()
}

// SetFilter changes the filter text and returns to the first page
func (t *Table[T]) SetFilter(text string) {
	t.state.Filter = text
	t.state.Page = 1
	t.recompute()
}

// SetSort changes the sort column and direction
func (t *Table[T]) SetSort(field string, dir Direction) {
	t.state.SortField = field
	t.state.Direction = dir
	t.state = t.state.normalized()
	t.recompute()
}

// SetPageSize changes the page size and returns to the first page
func (t *Table[T]) SetPageSize(size int) {
	t.state.PageSize = size
	t.state.Page = 1
	t.state = t.state.normalized()
	t.recompute()
}

// SetPage moves to another page without recomputing filter or sort
func (t *Table[T]) SetPage(page int) {
	t.state.Page = page
	t.state = t.state.normalized()
}

// Total returns the number of records in the underlying set
func (t *Table[T]) Total() int {
	return len(t.records)
}

// View returns the visible page
func (t *Table[T]) View() Page[T] {
	return paginate(t.sorted, t.state)
}

func (t *Table[T]) recompute() {
	filtered := Filter(t.records, t.schema.Search, t.state.Filter)
	t.sorted = Sort(filtered, t.schema.Fields[t.state.SortField], t.state.Direction)
}

// Update moves the table to next the way a user would get there: a changed
// filter or page size returns to page 1 and overrides next.Page, while a
// change of sort alone keeps the requested page.
func (t *Table[T]) Update(next State) {
	next = next.normalized()
	prev := t.state

	if next.Filter != prev.Filter {
		t.SetFilter(next.Filter)
	}
	if next.SortField != prev.SortField || next.Direction != prev.Direction {
		t.SetSort(next.SortField, next.Direction)
	}
	if next.PageSize != prev.PageSize {
		t.SetPageSize(next.PageSize)
	}
	if next.Filter == prev.Filter && next.PageSize == prev.PageSize {
		t.SetPage(next.Page)
	}
}
