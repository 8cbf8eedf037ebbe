package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
)

// DefaultCookieName names the session cookie when none is configured
const DefaultCookieName = "session_token"

// SessionCookie writes and reads the console session cookie
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set stores the session id in the cookie until the session expires
func (c SessionCookie) Set(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    string(session.ID),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the cookie
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session id from the request, or ""
func (c SessionCookie) Read(r *http.Request) model.SessionID {
	cookie, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return model.SessionID(cookie.Value)
}

func (c SessionCookie) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// GetSession retrieves the console session from the request context
// Returns nil if the request is not authenticated
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// Auth returns middleware that requires a console session.
// Redirects to the login page if there is none.
func Auth(authService *auth.Service, cookie SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromCookie(r, authService, cookie)
			if session == nil {
				if cookie.Read(r) != "" {
					cookie.Clear(w)
					SetFlash(w, FlashInfo, "Your session has expired, please sign in again")
				}
				// Store original URL to redirect back after login
				target := routes.Login
				if r.Method == http.MethodGet {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets the session in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service, cookie SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromCookie(r, authService, cookie)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func sessionFromCookie(r *http.Request, authService *auth.Service, cookie SessionCookie) *model.Session {
	id := cookie.Read(r)
	if id == "" {
		return nil
	}

	session, err := authService.ValidateSession(r.Context(), id)
	if err != nil {
		return nil
	}

	return session
}
