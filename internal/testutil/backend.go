package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/mcoot/scorekeeper/internal/model"
)

var signingKey = []byte("scorekeeper-test-key")

// Failure is a canned error payload for one route
type Failure struct {
	// TransportStatus is the HTTP status actually sent (default: StatusCode)
	TransportStatus int
	StatusCode      int
	Message         string
}

// Backend is an in-memory fake of the scoring backend API
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	accounts  map[string]string // username -> password
	tokens    map[string]string // token -> username
	players   []model.Player
	matches   []model.Match
	locations []model.Location
	nextID    int
	failures  map[string]Failure // "METHOD /path" -> failure
	requests  []string
	tokenTTL  time.Duration
}

// NewBackend starts a fake backend that is closed when the test ends
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		accounts: make(map[string]string),
		tokens:   make(map[string]string),
		failures: make(map[string]Failure),
		nextID:   100,
		tokenTTL: time.Hour,
	}

	r := mux.NewRouter()
	r.Use(b.record)
	r.Use(b.injectFailures)
	r.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(b.requireToken)
	authed.HandleFunc("/users", b.listPlayers).Methods(http.MethodGet)
	authed.HandleFunc("/users", b.createPlayer).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id:[0-9]+}", b.getPlayer).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id:[0-9]+}", b.updatePlayer).Methods(http.MethodPatch)
	authed.HandleFunc("/users/{id:[0-9]+}", b.deletePlayer).Methods(http.MethodDelete)
	authed.HandleFunc("/matches", b.listMatches).Methods(http.MethodGet)
	authed.HandleFunc("/matches", b.createMatch).Methods(http.MethodPost)
	authed.HandleFunc("/matches/{id:[0-9]+}", b.getMatch).Methods(http.MethodGet)
	authed.HandleFunc("/matches/{id:[0-9]+}", b.updateMatch).Methods(http.MethodPatch)
	authed.HandleFunc("/matches/{id:[0-9]+}", b.deleteMatch).Methods(http.MethodDelete)
	authed.HandleFunc("/matches/{matchId:[0-9]+}/rounds/{roundId:[0-9]+}/users/{userId:[0-9]+}", b.saveRound).
		Methods(http.MethodPost, http.MethodPatch)
	authed.HandleFunc("/locations", b.listLocations).Methods(http.MethodGet)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake
func (b *Backend) URL() string {
	return b.Server.URL
}

// AddAccount registers a login and its player record
func (b *Backend) AddAccount(username, password, firstName, lastName string) model.Player {
	b.mu.Lock()
	b.accounts[username] = password
	b.mu.Unlock()
	return b.AddPlayer(model.Player{Username: username, FirstName: firstName, LastName: lastName})
}

// AddPlayer stores a player, assigning an id when it has none
func (b *Backend) AddPlayer(p model.Player) model.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		p.ID = model.PlayerID(b.newID())
	}
	b.players = append(b.players, p)
	return p
}

// AddMatch stores a match, assigning an id when it has none
func (b *Backend) AddMatch(m model.Match) model.Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.ID == 0 {
		m.ID = model.MatchID(b.newID())
	}
	b.matches = append(b.matches, m)
	return m
}

// AddLocation stores a location
func (b *Backend) AddLocation(name string) model.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	loc := model.Location{ID: b.newID(), Name: name}
	b.locations = append(b.locations, loc)
	return loc
}

// IssueToken returns a valid bearer token for username
func (b *Backend) IssueToken(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueToken(username)
}

// RevokeTokens makes every issued token invalid
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	b.tokens = make(map[string]string)
	b.mu.Unlock()
}

// Fail makes every request to "METHOD /path" answer with the failure
func (b *Backend) Fail(method, path string, f Failure) {
	b.mu.Lock()
	b.failures[method+" "+path] = f
	b.mu.Unlock()
}

// Players returns a snapshot of the stored players
func (b *Backend) Players() []model.Player {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.players)
}

// Match returns a stored match
func (b *Backend) Match(id model.MatchID) (model.Match, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.matchIndex(id)
	if i < 0 {
		return model.Match{}, false
	}
	return b.matches[i], true
}

// Requests returns "METHOD /path" for every request received, in order
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// Middleware

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		status := f.TransportStatus
		if status == 0 {
			status = f.StatusCode
		}
		writeJSON(w, status, map[string]any{
			"statusCode": f.StatusCode,
			"message":    f.Message,
		})
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		b.mu.Lock()
		_, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handlers

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if pass, ok := b.accounts[req.Username]; !ok || pass != req.Password {
		// The backend reports bad credentials inside a 200 envelope
		writeJSON(w, http.StatusOK, map[string]any{"statusCode": 400, "message": "Invalid username or password"})
		return
	}

	var player model.Player
	for _, p := range b.players {
		if p.Username == req.Username {
			player = p
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"access_token": b.issueToken(req.Username),
		"username":     player.Username,
		"firstname":    player.FirstName,
		"lastname":     player.LastName,
	})
}

func (b *Backend) listPlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Players())
}

func (b *Backend) getPlayer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.playerIndex(model.PlayerID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, b.players[i])
}

func (b *Backend) createPlayer(w http.ResponseWriter, r *http.Request) {
	var in model.PlayerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"statusCode": 400,
			"message":    []string{"username should not be empty"},
			"error":      "Bad Request",
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.players {
		if p.Username == in.Username {
			writeError(w, http.StatusConflict, "Username already exists")
			return
		}
	}
	p := model.Player{ID: model.PlayerID(b.newID()), Username: in.Username, FirstName: in.FirstName, LastName: in.LastName}
	b.players = append(b.players, p)
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updatePlayer(w http.ResponseWriter, r *http.Request) {
	var in model.PlayerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.playerIndex(model.PlayerID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	p := &b.players[i]
	if in.Username != "" {
		p.Username = in.Username
	}
	if in.FirstName != "" {
		p.FirstName = in.FirstName
	}
	if in.LastName != "" {
		p.LastName = in.LastName
	}
	writeJSON(w, http.StatusOK, *p)
}

func (b *Backend) deletePlayer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.playerIndex(model.PlayerID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	p := b.players[i]
	b.players = slices.Delete(b.players, i, i+1)
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) listMatches(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.matches)
}

func (b *Backend) getMatch(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.matchIndex(model.MatchID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Match not found")
		return
	}
	writeJSON(w, http.StatusOK, b.matches[i])
}

func (b *Backend) createMatch(w http.ResponseWriter, r *http.Request) {
	var in model.MatchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "a match needs players")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m := model.Match{ID: model.MatchID(b.newID()), InProgress: true}
	for _, id := range in.UserIDs {
		if i := b.playerIndex(id); i >= 0 {
			m.Users = append(m.Users, b.players[i])
		}
	}
	for _, loc := range b.locations {
		if loc.ID == in.LocationID {
			m.Location = &loc
		}
	}
	b.matches = append(b.matches, m)
	writeJSON(w, http.StatusCreated, m)
}

func (b *Backend) updateMatch(w http.ResponseWriter, r *http.Request) {
	var in model.MatchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.matchIndex(model.MatchID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Match not found")
		return
	}
	if in.InProgress != nil {
		b.matches[i].InProgress = *in.InProgress
	}
	writeJSON(w, http.StatusOK, b.matches[i])
}

func (b *Backend) deleteMatch(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.matchIndex(model.MatchID(pathID(r, "id")))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Match not found")
		return
	}
	m := b.matches[i]
	b.matches = slices.Delete(b.matches, i, i+1)
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) saveRound(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Points int `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	mi := b.matchIndex(model.MatchID(pathID(r, "matchId")))
	if mi < 0 {
		writeError(w, http.StatusNotFound, "Match not found")
		return
	}
	match := &b.matches[mi]
	userID := model.PlayerID(pathID(r, "userId"))
	if !match.HasPlayer(userID) {
		writeError(w, http.StatusBadRequest, "Player is not part of this match")
		return
	}
	roundID := pathID(r, "roundId")

	for i, rd := range match.Rounds {
		if rd.RoundID == roundID && rd.User.ID == userID {
			if r.Method == http.MethodPost {
				writeError(w, http.StatusConflict, "Round already recorded")
				return
			}
			match.Rounds[i].Points = in.Points
			writeJSON(w, http.StatusOK, match.Rounds[i])
			return
		}
	}
	if r.Method == http.MethodPatch {
		writeError(w, http.StatusNotFound, "Round not found")
		return
	}

	var user model.Player
	for _, u := range match.Users {
		if u.ID == userID {
			user = u
		}
	}
	rd := model.Round{ID: b.newID(), RoundID: roundID, Points: in.Points, User: user}
	match.Rounds = append(match.Rounds, rd)
	writeJSON(w, http.StatusCreated, rd)
}

func (b *Backend) listLocations(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.locations)
}

// Helpers (callers hold b.mu)

func (b *Backend) newID() int {
	b.nextID++
	return b.nextID
}

func (b *Backend) issueToken(username string) string {
	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"jti":      strconv.Itoa(b.newID()),
		"exp":      time.Now().Add(b.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(fmt.Sprintf("signing test token: %v", err))
	}
	b.tokens[token] = username
	return token
}

func (b *Backend) playerIndex(id model.PlayerID) int {
	return slices.IndexFunc(b.players, func(p model.Player) bool { return p.ID == id })
}

func (b *Backend) matchIndex(id model.MatchID) int {
	return slices.IndexFunc(b.matches, func(m model.Match) bool { return m.ID == id })
}

func pathID(r *http.Request, name string) int {
	n, _ := strconv.Atoi(mux.Vars(r)[name])
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}
