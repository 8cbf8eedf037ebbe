// Package view derives the visible page of an in-memory record set from a
// filter, a column sort and a page window. Every function is pure: records
// are never mutated and identical inputs give identical output.
package view

import (
	"slices"
	"strings"
)

// DefaultPageSize is used when a state carries no usable page size
const DefaultPageSize = 5

// Direction is a sort direction
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending";
// anything else is ascending
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "desc", "descending":
		return Descending
	}
	return Ascending
}

// Short returns "asc" or "desc"
func (d Direction) Short() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// State is everything that decides which records are visible.
// Page*PageSize may exceed the filtered length; that page is simply empty.
type State struct {
	Filter    string
	SortField string
	Direction Direction
	Page      int // 1-based
	PageSize  int
}

// normalized clamps Page and PageSize into their valid ranges
func (s State) normalized() State {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.Direction != Descending {
		s.Direction = Ascending
	}
	return s
}

// Schema tells the engine how to read a record type
type Schema[T any] struct {
	// Search returns the text the filter is matched against
	Search func(T) string
	// Fields maps sortable field names to their values
	Fields map[string]func(T) any
}

// Page is the visible window plus the counts needed to render pagination
type Page[T any] struct {
	Items     []T
	Total     int // records left after filtering
	PageCount int
	State     State
}

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool {
	return p.State.Page < p.PageCount
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool {
	return p.State.Page > 1
}

// Apply runs filter, sort and paginate in that order
func Apply[T any](records []T, schema Schema[T], state State) Page[T] {
	state = state.normalized()
	sorted := Sort(Filter(records, schema.Search, state.Filter), schema.Fields[state.SortField], state.Direction)
	return paginate(sorted, state)
}

// Filter keeps records whose searchable text contains text, ignoring case.
// Empty text keeps every record in its original order.
func Filter[T any](records []T, search func(T) string, text string) []T {
	if text == "" || search == nil {
		return slices.Clone(records)
	}

	needle := strings.ToLower(text)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(search(r)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. Descending negates the
// comparison, so ties keep their input order in both directions.
// A nil key leaves the order unchanged.
func Sort[T any](records []T, key func(T) any, dir Direction) []T {
	out := slices.Clone(records)
	if key == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b T) int {
		c := Compare(key(a), key(b))
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

// PageCount returns ceil(total/pageSize), at least 1
func PageCount(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return max(1, fullPages(total, pageSize))
}

// fullPages is ceil(total/pageSize) without the overflow of adding first
func fullPages(total, pageSize int) int {
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Paginate returns the window [(page-1)*size, page*size) clamped to the
// slice. A page past the end yields an empty window.
func Paginate[T any](records []T, page, pageSize int) []T {
	st := State{Page: page, PageSize: pageSize}.normalized()

	if st.Page-1 >= fullPages(len(records), st.PageSize) {
		return []T{}
	}
	start := (st.Page - 1) * st.PageSize
	end := start + min(st.PageSize, len(records)-start)
	return slices.Clone(records[start:end])
}

func paginate[T any](sorted []T, state State) Page[T] {
	return Page[T]{
		Items:     Paginate(sorted, state.Page, state.PageSize),
		Total:     len(sorted),
		PageCount: PageCount(len(sorted), state.PageSize),
		State:     state,
	}
}
