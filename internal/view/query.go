package view

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names used to carry a State in a URL
const (
	ParamFilter    = "q"
	ParamSort      = "sort"
	ParamDirection = "dir"
	ParamPage      = "page"
	ParamPageSize  = "size"
)

// ParseState reads a State from query parameters, taking anything missing
// or malformed from defaults
func ParseState(q url.Values, defaults State) State {
	st := defaults

	if q.Has(ParamFilter) {
		st.Filter = strings.TrimSpace(q.Get(ParamFilter))
	}
	if v := q.Get(ParamSort); v != "" {
		st.SortField = v
	}
	if v := q.Get(ParamDirection); v != "" {
		st.Direction = ParseDirection(v)
	}
	if n, err := strconv.Atoi(q.Get(ParamPage)); err == nil && n > 0 {
		st.Page = n
	}
	if n, err := strconv.Atoi(q.Get(ParamPageSize)); err == nil && n > 0 {
		st.PageSize = n
	}

	return st.normalized()
}

// Values encodes the state as query parameters
func (s State) Values() url.Values {
	s = s.normalized()
	q := url.Values{}
	if s.Filter != "" {
		q.Set(ParamFilter, s.Filter)
	}
	if s.SortField != "" {
		q.Set(ParamSort, s.SortField)
	}
	q.Set(ParamDirection, s.Direction.Short())
	q.Set(ParamPage, strconv.Itoa(s.Page))
	q.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	return q
}

// WithPage returns a copy of the state on another page
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

// WithSort returns a copy sorted by field. Re-sorting the current field
// flips the direction; a new field starts ascending.
func (s State) WithSort(field string) State {
	if s.SortField == field {
		s.Direction = s.Direction.Toggle()
	} else {
		s.SortField = field
		s.Direction = Ascending
	}
	return s
}
