package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/view"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Credential:
		o.printCredential(v)
	case *model.Player:
		o.printPlayer(v)
	case *model.Match:
		o.printMatch(v)
	case []model.Round:
		o.printRounds(v)
	case Listing[model.Player]:
		printListing(o, v, tables.PlayerCell)
	case Listing[model.Match]:
		printListing(o, v, tables.MatchCell)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Listing is one page of a record listing with the columns to show
type Listing[T any] struct {
	Items     []T      `json:"items"`
	Total     int      `json:"total"`
	Page      int      `json:"page"`
	PageCount int      `json:"page_count"`
	Columns   []string `json:"columns"`
	headers   []view.Column
}

func newListing[T any](page view.Page[T], cols *view.Columns) Listing[T] {
	l := Listing[T]{
		Items:     page.Items,
		Total:     page.Total,
		Page:      page.State.Page,
		PageCount: page.PageCount,
	}
	for _, col := range cols.Visible() {
		if col.UID == "actions" {
			continue
		}
		l.Columns = append(l.Columns, col.UID)
		l.headers = append(l.headers, col)
	}
	return l
}

func printListing[T any](o *Output, l Listing[T], cell func(T, string) string) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)

	names := make([]string, len(l.headers))
	for i, col := range l.headers {
		names[i] = strings.ToUpper(col.Name)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(names, "\t"))

	for _, item := range l.Items {
		cells := make([]string, len(l.Columns))
		for i, uid := range l.Columns {
			cells[i] = cell(item, uid)
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(o.w, "Page %d of %d (%d total)\n", l.Page, l.PageCount, l.Total)
}

func (o *Output) printCredential(c *model.Credential) {
	_, _ = fmt.Fprintf(o.w, "Signed in as: %s\n", c.Username)
	if name := (model.Player{FirstName: c.FirstName, LastName: c.LastName}).FullName(); name != "" {
		_, _ = fmt.Fprintf(o.w, "Name: %s\n", name)
	}
	if !c.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(o.w, "Expires: %s\n", c.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func (o *Output) printPlayer(p *model.Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%d)\n", p.Username, p.ID)
	if name := p.FullName(); name != "" {
		_, _ = fmt.Fprintf(o.w, "Name: %s\n", name)
	}
}

func (o *Output) printMatch(m *model.Match) {
	_, _ = fmt.Fprintf(o.w, "Match: %d\n", m.ID)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", tables.MatchStatus(*m))
	if loc := m.LocationName(); loc != "" {
		_, _ = fmt.Fprintf(o.w, "Location: %s\n", loc)
	}
	if len(m.Users) == 0 {
		return
	}

	// Score sheet: one row per round, one column per player
	rounds := make(map[int]map[model.PlayerID]int)
	var order []int
	for _, r := range m.Rounds {
		if _, ok := rounds[r.RoundID]; !ok {
			rounds[r.RoundID] = make(map[model.PlayerID]int)
			order = append(order, r.RoundID)
		}
		rounds[r.RoundID][r.User.ID] = r.Points
	}
	slices.Sort(order)

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	header := []string{"ROUND"}
	for _, u := range m.Users {
		header = append(header, u.Username)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, id := range order {
		row := []string{strconv.Itoa(id)}
		for _, u := range m.Users {
			if points, ok := rounds[id][u.ID]; ok {
				row = append(row, strconv.Itoa(points))
			} else {
				row = append(row, "-")
			}
		}
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	totals := m.Totals()
	row := []string{"TOTAL"}
	for _, u := range m.Users {
		row = append(row, strconv.Itoa(totals[u.ID]))
	}
	_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	_ = tw.Flush()
}

func (o *Output) printRounds(rounds []model.Round) {
	for _, r := range rounds {
		_, _ = fmt.Fprintf(o.w, "Round %d: %s scored %d\n", r.RoundID, r.User.Username, r.Points)
	}
}
