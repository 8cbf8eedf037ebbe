package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	httpmw "github.com/mcoot/scorekeeper/internal/middleware"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/web/handler"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	// Storage remembers each session's listing state
	Storage storage.Storage
	// Backend creates backend clients bound to a request's session
	Backend handler.ClientFactory
	Cookie  middleware.SessionCookie
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := httpmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService, cfg.Cookie)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService, cfg.Cookie)

	// Apply global middleware to all routes; logging runs outermost so the
	// request id is available when a panic is recovered
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	// Create handlers
	binder := handler.NewBinder(cfg.AuthService, cfg.Backend, cfg.Cookie, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Cookie, cfg.Logger)
	dashboardHandler := handler.NewDashboardHandler(binder, cfg.Logger)
	playersHandler := handler.NewPlayersHandler(binder, cfg.Storage, cfg.Logger)
	matchesHandler := handler.NewMatchesHandler(binder, cfg.Storage, cfg.Logger)

	r.Handle("/", http.RedirectHandler(routes.Dashboard, http.StatusSeeOther)).Methods(http.MethodGet)

	// Public routes (optional auth so a signed-in user skips the login form)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc(routes.Login, authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc(routes.Login, authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	protected.HandleFunc(routes.Dashboard, dashboardHandler.View).Methods(http.MethodGet)

	// Player routes
	protected.HandleFunc(routes.Players, playersHandler.List).Methods(http.MethodGet)
	protected.HandleFunc(routes.Players, playersHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/players/{id:[0-9]+}", playersHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/players/{id:[0-9]+}/delete", playersHandler.Delete).Methods(http.MethodPost)

	// Match routes
	protected.HandleFunc(routes.Matches, matchesHandler.List).Methods(http.MethodGet)
	protected.HandleFunc(routes.Matches, matchesHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/matches/{id:[0-9]+}", matchesHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/matches/{id:[0-9]+}/end", matchesHandler.End).Methods(http.MethodPost)
	protected.HandleFunc("/matches/{id:[0-9]+}/delete", matchesHandler.Delete).Methods(http.MethodPost)
	protected.HandleFunc("/matches/{id:[0-9]+}/rounds", matchesHandler.SaveRound).Methods(http.MethodPost)

	// mux skips Use middleware for the not-found handler
	r.NotFoundHandler = loggingMiddleware(recoveryMiddleware(flashMiddleware(optionalAuthMiddleware(handler.NotFound(cfg.Logger)))))

	return r
}
