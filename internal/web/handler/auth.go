package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// AuthHandler handles the login page and session actions
type AuthHandler struct {
	authService *auth.Service
	cookie      middleware.SessionCookie
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, cookie middleware.SessionCookie, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, routes.Dashboard, http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: pageData(r, "Sign in", ""),
		Next:     safeNext(r.URL.Query().Get("next")),
	}
	render(w, r, h.logger, http.StatusOK, pages.Login(data))
}

// Login exchanges the submitted credentials for a console session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, routes.Login, http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		data := pages.LoginData{
			PageData: pageData(r, "Sign in", ""),
			Username: username,
			Error:    h.loginError(err),
			Next:     next,
		}
		render(w, r, h.logger, http.StatusUnauthorized, pages.Login(data))
		return
	}

	h.cookie.Set(w, session)
	middleware.SetFlash(w, middleware.FlashSuccess, "Welcome back, "+session.Credential.Username)

	if next == "" {
		next = routes.Dashboard
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the console session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		if err := h.authService.InvalidateSession(r.Context(), session.ID); err != nil {
			h.logger.Warn("could not remove session", slog.String("error", err.Error()))
		}
	}

	h.cookie.Clear(w)
	middleware.SetFlash(w, middleware.FlashInfo, "You have been signed out")
	http.Redirect(w, r, routes.Login, http.StatusSeeOther)
}

func (h *AuthHandler) loginError(err error) string {
	var apiErr *gateway.APIError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.As(err, &apiErr):
		return apiErr.Message
	}
	h.logger.Error("login failed", slog.String("error", err.Error()))
	return "The scoring service could not be reached, please try again"
}

// safeNext only allows redirects to local paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
