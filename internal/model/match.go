package model

// MatchID uniquely identifies a match on the backend
type MatchID int

// Location is where a match is played
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Match is a scoring session between several players
type Match struct {
	ID         MatchID   `json:"id"`
	InProgress bool      `json:"inProgress"`
	Users      []Player  `json:"users"`
	Location   *Location `json:"location,omitempty"`
	Rounds     []Round   `json:"rounds,omitempty"`
}

// LocationName returns the location name, or "" when unset
func (m Match) LocationName() string {
	if m.Location == nil {
		return ""
	}
	return m.Location.Name
}

// HasPlayer reports whether the player takes part in the match
func (m Match) HasPlayer(id PlayerID) bool {
	for _, u := range m.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Totals sums round points per player
func (m Match) Totals() map[PlayerID]int {
	totals := make(map[PlayerID]int, len(m.Users))
	for _, u := range m.Users {
		totals[u.ID] = 0
	}
	for _, r := range m.Rounds {
		totals[r.User.ID] += r.Points
	}
	return totals
}

// MatchInput is the body for creating or updating a match
type MatchInput struct {
	UserIDs    []PlayerID `json:"users,omitempty"`
	LocationID int        `json:"locationId,omitempty"`
	InProgress *bool      `json:"inProgress,omitempty"`
}

// Round is one player's score for one numbered round of a match
type Round struct {
	ID      int    `json:"id"`
	RoundID int    `json:"roundId"`
	Points  int    `json:"points"`
	User    Player `json:"user"`
}

// RoundInput describes a round to save for one or more players
type RoundInput struct {
	MatchID MatchID
	RoundID int
	Points  int
	UserIDs []PlayerID
}
