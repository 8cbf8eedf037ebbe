package model

import "unicode"

// PlayerID uniquely identifies a player on the backend
type PlayerID int

// Player is a backend user who takes part in matches
type Player struct {
	ID        PlayerID `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
}

// FullName returns "First Last", trimmed when either part is missing
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Initials returns the upper-case first letters of the first and last name,
// or of the username when neither is set
func (p Player) Initials() string {
	var out []rune
	for _, part := range []string{p.FirstName, p.LastName} {
		for _, r := range part {
			out = append(out, unicode.ToUpper(r))
			break
		}
	}
	if len(out) == 0 {
		for _, r := range p.Username {
			return string(unicode.ToUpper(r))
		}
	}
	return string(out)
}

// PlayerInput is the body for creating or updating a player
type PlayerInput struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Password  string `json:"password,omitempty"`
}
