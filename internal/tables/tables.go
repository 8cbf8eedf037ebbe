// Package tables declares the record schemas and columns of the player and
// match listings shared by the web console and the CLI.
package tables

import (
	"strconv"
	"strings"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/view"
)

// Names under which table state is remembered per session
const (
	PlayersTable = "players"
	MatchesTable = "matches"
)

// PageSizes are the page sizes offered to the user
var PageSizes = []int{5, 10, 15}

// Players

// PlayerDefaults is the initial state of the player listing
var PlayerDefaults = view.State{
	SortField: "id",
	Direction: view.Ascending,
	Page:      1,
	PageSize:  5,
}

// PlayerSchema filters players by username
var PlayerSchema = view.Schema[model.Player]{
	Search: func(p model.Player) string { return p.Username },
	Fields: map[string]func(model.Player) any{
		"id":        func(p model.Player) any { return int(p.ID) },
		"username":  func(p model.Player) any { return p.Username },
		"firstname": func(p model.Player) any { return p.FirstName },
		"lastname":  func(p model.Player) any { return p.LastName },
	},
}

// PlayerColumns returns the player listing columns
func PlayerColumns(visible ...string) *view.Columns {
	return view.NewColumns([]view.Column{
		{UID: "id", Name: "ID", Sortable: true, Locked: true},
		{UID: "username", Name: "Username", Sortable: true},
		{UID: "firstname", Name: "First name", Sortable: true},
		{UID: "lastname", Name: "Last name", Sortable: true},
		{UID: "actions", Name: "Actions", Locked: true},
	}, visible...)
}

// PlayerCell renders one player field as text; "actions" is rendered by
// the caller
func PlayerCell(p model.Player, uid string) string {
	switch uid {
	case "id":
		return strconv.Itoa(int(p.ID))
	case "username":
		return p.Username
	case "firstname":
		return p.FirstName
	case "lastname":
		return p.LastName
	}
	return ""
}

// Matches

// MatchDefaults is the initial state of the match listing: newest first
var MatchDefaults = view.State{
	SortField: "id",
	Direction: view.Descending,
	Page:      1,
	PageSize:  10,
}

// MatchSchema filters matches by location and player usernames
var MatchSchema = view.Schema[model.Match]{
	Search: func(m model.Match) string {
		parts := []string{m.LocationName()}
		for _, u := range m.Users {
			parts = append(parts, u.Username)
		}
		return strings.Join(parts, " ")
	},
	Fields: map[string]func(model.Match) any{
		"id":       func(m model.Match) any { return int(m.ID) },
		"location": func(m model.Match) any { return m.LocationName() },
		"status":   func(m model.Match) any { return m.InProgress },
		"players":  func(m model.Match) any { return len(m.Users) },
	},
}

// MatchColumns returns the match listing columns
func MatchColumns(visible ...string) *view.Columns {
	return view.NewColumns([]view.Column{
		{UID: "id", Name: "ID", Sortable: true, Locked: true},
		{UID: "location", Name: "Location", Sortable: true},
		{UID: "players", Name: "Players", Sortable: true},
		{UID: "status", Name: "Status", Sortable: true},
		{UID: "actions", Name: "Actions", Locked: true},
	}, visible...)
}

// MatchCell renders one match field as text
func MatchCell(m model.Match, uid string) string {
	switch uid {
	case "id":
		return strconv.Itoa(int(m.ID))
	case "location":
		return m.LocationName()
	case "players":
		names := make([]string, len(m.Users))
		for i, u := range m.Users {
			names[i] = u.Username
		}
		return strings.Join(names, ", ")
	case "status":
		return MatchStatus(m)
	}
	return ""
}

// MatchStatus is the human-readable state of a match
func MatchStatus(m model.Match) string {
	if m.InProgress {
		return "In progress"
	}
	return "Finished"
}

// ParseColumns splits a comma-separated column list, accepting repeated
// values as well
func ParseColumns(values []string) []string {
	var out []string
	for _, v := range values {
		for _, uid := range strings.Split(v, ",") {
			if uid = strings.TrimSpace(uid); uid != "" {
				out = append(out, uid)
			}
		}
	}
	return out
}
