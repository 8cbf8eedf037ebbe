// Package pages holds the full-page components of the console.
package pages

import (
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/web/templates/components"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

// ErrorData renders the error page
type ErrorData struct {
	layout.PageData
	RequestID string
}

// LoginData renders the login form
type LoginData struct {
	layout.PageData
	Username string
	Error    string
	Next     string
}

// DashboardData renders the landing page
type DashboardData struct {
	layout.PageData
	PlayerCount     int
	MatchCount      int
	InProgressCount int
	Ongoing         []model.Match
	Error           string
}

// PlayersData renders the player listing
type PlayersData struct {
	layout.PageData
	Table components.TableData
	Error string
}

// MatchesData renders the match listing and the new-match form
type MatchesData struct {
	layout.PageData
	Table     components.TableData
	Players   []model.Player
	Locations []model.Location
	Error     string
}

// ScoreRow is one numbered round of a match
type ScoreRow struct {
	RoundID int
	Points  []string // one entry per match player, "" when not recorded
}

// MatchData renders one match with its score sheet
type MatchData struct {
	layout.PageData
	Match     model.Match
	Rounds    []ScoreRow
	Totals    []int // one entry per match player
	NextRound int
}
