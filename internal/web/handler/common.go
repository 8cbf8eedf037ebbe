package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/backend"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

// ClientFactory creates a backend client bound to a session and navigator
type ClientFactory func(session gateway.Session, navigator gateway.Navigator) *backend.Client

// Binder hands out backend clients bound to the console session of the
// current request
type Binder struct {
	authService *auth.Service
	newClient   ClientFactory
	cookie      middleware.SessionCookie
	logger      *slog.Logger
}

// NewBinder creates a new Binder
func NewBinder(authService *auth.Service, newClient ClientFactory, cookie middleware.SessionCookie, logger *slog.Logger) *Binder {
	return &Binder{
		authService: authService,
		newClient:   newClient,
		cookie:      cookie,
		logger:      logger,
	}
}

// Client returns a backend client for the request's session, and the
// navigator that records where the gateway sent the user on a 401
func (b *Binder) Client(r *http.Request) (*backend.Client, *gateway.RecordingNavigator) {
	nav := &gateway.RecordingNavigator{}
	var session gateway.Session = gateway.NoSession{}
	if s := middleware.GetSession(r.Context()); s != nil {
		session = b.authService.SessionContext(s.ID)
	}
	return b.newClient(session, nav), nav
}

// Expired finishes the request if the backend ended the session: the
// cookie is cleared and the user is redirected to the route the gateway
// navigated to. It reports whether it did so.
func (b *Binder) Expired(w http.ResponseWriter, r *http.Request, nav *gateway.RecordingNavigator) bool {
	route := nav.Route()
	if route == "" {
		return false
	}
	b.cookie.Clear(w)
	middleware.SetFlash(w, middleware.FlashError, "Your session has expired, please sign in again")
	http.Redirect(w, r, route, http.StatusSeeOther)
	return true
}

// Fail reports a failed action with a flash message and redirects to
// target, unless the session expired
func (b *Binder) Fail(w http.ResponseWriter, r *http.Request, nav *gateway.RecordingNavigator, err error, target string) {
	if b.Expired(w, r, nav) {
		return
	}
	middleware.SetFlash(w, middleware.FlashError, b.Message(r, err))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Message turns a backend failure into text for the user. Error payloads
// carry their own message; anything else is logged and reported generically.
func (b *Binder) Message(r *http.Request, err error) string {
	var apiErr *gateway.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, model.ErrInvalidRound):
		return err.Error()
	}
	b.logger.Error("backend call failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	return "The scoring service could not be reached, please try again"
}

// pageData builds the data shared by every page
func pageData(r *http.Request, title, nav string) layout.PageData {
	data := layout.PageData{
		Title: title,
		Nav:   nav,
		Flash: middleware.GetFlash(r.Context()),
	}
	if session := middleware.GetSession(r.Context()); session != nil {
		cred := session.Credential
		data.User = &cred
	}
	return data
}

// render writes a full page. The page is rendered before anything is
// written so a failing component never produces a truncated document.
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, page templ.Component) {
	var buf bytes.Buffer
	if err := page.Render(r.Context(), &buf); err != nil {
		logger.Error("render failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
