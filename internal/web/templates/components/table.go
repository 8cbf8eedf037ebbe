package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/view"
)

// Link is a rendered anchor
type Link struct {
	Label   string
	URL     string
	Current bool
}

// HeaderCell is a column header with its sort link
type HeaderCell struct {
	view.Column
	SortURL string
	// Indicator is "▲", "▼" or "" for the sorted column
	Indicator string
}

// Row is one rendered table row; Cells line up with the visible columns
type Row struct {
	ID    int
	Cells []Cell
	// Open marks a record that still accepts changes (a match in progress)
	Open bool
}

// Cell is one rendered table cell
type Cell struct {
	UID  string
	Text string
}

// ColumnToggle is a column checkbox in the column picker
type ColumnToggle struct {
	view.Column
	Visible bool
}

// TableData is a listing rendered through the view engine
type TableData struct {
	Path       string
	State      view.State
	Headers    []HeaderCell
	Rows       []Row
	Total      int
	PageCount  int
	Pages      []Link
	Prev       string
	Next       string
	PageSizes  []Link
	ColumnList []ColumnToggle
	// FilterHidden and ColumnHidden carry the rest of the state through
	// the search and column forms
	FilterHidden map[string]string
	ColumnHidden map[string]string
}

// Table renders a listing with its search, column picker and pagination.
// actions renders the content of the "actions" column for a row.
func Table(data TableData, actions func(Row) templ.Component) templ.Component {
	return Component(func(ctx context.Context, h *HTML) {
		h.Raw(`<div class="listing">`, "\n")

		h.Raw(`<form method="get"`)
		h.Attr("action", data.Path)
		h.Raw(` class="filter">`, "\n", `<input type="search" name="q"`)
		h.Attr("value", data.State.Filter)
		h.Raw(` placeholder="Search…" aria-label="Search">`, "\n")
		h.Hidden(data.FilterHidden)
		h.Raw(`<button type="submit">Search</button>`, "\n</form>\n")

		h.Raw(`<form method="get"`)
		h.Attr("action", data.Path)
		h.Raw(` class="columns">`, "\n", `<input type="hidden" name="cols" value="">`, "\n")
		for _, col := range data.ColumnList {
			h.Raw(`<label><input type="checkbox" name="cols"`)
			h.Attr("value", col.UID)
			h.BoolAttr("checked", col.Visible)
			h.BoolAttr("disabled", col.Locked)
			h.Raw("> ")
			h.Text(col.Name)
			h.Raw("</label>\n")
		}
		h.Hidden(data.ColumnHidden)
		h.Raw(`<button type="submit">Apply columns</button>`, "\n</form>\n")

		h.Raw(`<p class="summary">Total `, strconv.Itoa(data.Total), " · page ",
			strconv.Itoa(data.State.Page), " of ", strconv.Itoa(data.PageCount), "</p>\n")

		h.Raw("<table>\n<thead>\n<tr>")
		for _, col := range data.Headers {
			h.Raw("<th")
			h.Attr("class", "col-"+col.UID)
			h.Raw(">")
			if col.SortURL != "" {
				h.Raw("<a")
				h.Href(col.SortURL)
				h.Raw(">")
				h.Text(col.Name)
				h.Raw("</a>")
				if col.Indicator != "" {
					h.Raw(` <span class="sort">`)
					h.Text(col.Indicator)
					h.Raw("</span>")
				}
			} else {
				h.Text(col.Name)
			}
			h.Raw("</th>")
		}
		h.Raw("</tr>\n</thead>\n<tbody>\n")

		for _, row := range data.Rows {
			h.Raw("<tr")
			h.Attr("data-id", strconv.Itoa(row.ID))
			h.Raw(">")
			for _, cell := range row.Cells {
				h.Raw("<td")
				h.Attr("class", "col-"+cell.UID)
				h.Raw(">")
				if cell.UID == "actions" {
					if actions != nil {
						h.Render(ctx, actions(row))
					}
				} else {
					h.Text(cell.Text)
				}
				h.Raw("</td>")
			}
			h.Raw("</tr>\n")
		}
		if len(data.Rows) == 0 {
			h.Raw(`<tr class="empty"><td colspan="`, strconv.Itoa(len(data.Headers)), `">No records</td></tr>`, "\n")
		}
		h.Raw("</tbody>\n</table>\n")

		h.Raw(`<nav class="pagination">`)
		if data.Prev != "" {
			h.Raw("<a")
			h.Href(data.Prev)
			h.Raw(` rel="prev">Previous</a>`)
		}
		for _, p := range data.Pages {
			link(h, p)
		}
		if data.Next != "" {
			h.Raw("<a")
			h.Href(data.Next)
			h.Raw(` rel="next">Next</a>`)
		}
		h.Raw("</nav>\n")

		h.Raw(`<p class="page-size">Rows per page:`)
		for _, p := range data.PageSizes {
			h.Raw(" ")
			link(h, p)
		}
		h.Raw("</p>\n</div>\n")
	})
}

// link writes the current entry as plain text and the others as anchors
func link(h *HTML, l Link) {
	if l.Current {
		h.Raw(`<span class="current">`)
		h.Text(l.Label)
		h.Raw("</span>")
		return
	}
	h.Raw("<a")
	h.Href(l.URL)
	h.Raw(">")
	h.Text(l.Label)
	h.Raw("</a>")
}
