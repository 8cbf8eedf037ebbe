package model

import "time"

// SessionID identifies a console session (e.g. a browser cookie)
type SessionID string

// Credential is the bearer token issued by the backend on login, plus
// the identity of its holder
type Credential struct {
	Token     string    `json:"access_token"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Expired reports whether the credential has a known expiry before now
func (c *Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Session binds a credential to a console session
type Session struct {
	ID         SessionID
	Credential Credential
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
