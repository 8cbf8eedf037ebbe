package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// MatchesHandler handles match pages and actions
type MatchesHandler struct {
	binder  *Binder
	listing *listing[model.Match]
	logger  *slog.Logger
}

// NewMatchesHandler creates a new MatchesHandler
func NewMatchesHandler(binder *Binder, store storage.Storage, logger *slog.Logger) *MatchesHandler {
	return &MatchesHandler{
		binder: binder,
		listing: &listing[model.Match]{
			name:     tables.MatchesTable,
			path:     routes.Matches,
			schema:   tables.MatchSchema,
			defaults: tables.MatchDefaults,
			columns:  tables.MatchColumns,
			cell:     tables.MatchCell,
			id:       func(m model.Match) int { return int(m.ID) },
			open:     func(m model.Match) bool { return m.InProgress },
			storage:  store,
			logger:   logger,
		},
		logger: logger,
	}
}

// List renders the match listing with the form for starting a match.
// Matches, players and locations are fetched concurrently.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	client, nav := h.binder.Client(r)

	var (
		matches   []model.Match
		players   []model.Player
		locations []model.Location
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		matches, err = client.ListMatches(ctx)
		return err
	})
	g.Go(func() (err error) {
		players, err = client.ListPlayers(ctx)
		return err
	})
	g.Go(func() (err error) {
		locations, err = client.ListLocations(ctx)
		return err
	})
	err := g.Wait()
	if h.binder.Expired(w, r, nav) {
		return
	}

	data := pages.MatchesData{
		PageData:  pageData(r, "Matches", "matches"),
		Players:   players,
		Locations: locations,
	}
	if err != nil {
		data.Error = h.binder.Message(r, err)
	}
	data.Table = h.listing.build(r.Context(), middleware.GetSession(r.Context()), r.URL.Query(), matches)

	render(w, r, h.logger, http.StatusOK, pages.Matches(data))
}

// Create starts a match between the selected players
func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, routes.Matches, http.StatusSeeOther)
		return
	}

	users, err := formPlayers(r.Form["users"])
	if err != nil || len(users) == 0 {
		middleware.SetFlash(w, middleware.FlashError, "Select at least one player")
		http.Redirect(w, r, routes.Matches, http.StatusSeeOther)
		return
	}
	in := model.MatchInput{UserIDs: users}
	if loc := r.FormValue("location"); loc != "" {
		in.LocationID, err = strconv.Atoi(loc)
		if err != nil {
			middleware.SetFlash(w, middleware.FlashError, "Invalid location")
			http.Redirect(w, r, routes.Matches, http.StatusSeeOther)
			return
		}
	}

	client, nav := h.binder.Client(r)
	match, err := client.CreateMatch(r.Context(), in)
	if err != nil {
		h.binder.Fail(w, r, nav, err, routes.Matches)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Match started")
	http.Redirect(w, r, routes.Match(int(match.ID)), http.StatusSeeOther)
}

// View renders one match with its score sheet
func (h *MatchesHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	match, err := client.GetMatch(r.Context(), id)
	if err != nil {
		if h.binder.Expired(w, r, nav) {
			return
		}
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			render(w, r, h.logger, http.StatusNotFound, pages.NotFound(pageData(r, "Not found", "matches")))
			return
		}
		h.binder.Fail(w, r, nav, err, routes.Matches)
		return
	}

	data := pages.MatchData{
		PageData: pageData(r, "Match #"+strconv.Itoa(int(match.ID)), "matches"),
		Match:    *match,
	}
	data.Rounds, data.Totals, data.NextRound = scoreSheet(*match)

	render(w, r, h.logger, http.StatusOK, pages.Match(data))
}

// End marks a match as finished
func (h *MatchesHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	if _, err := client.EndMatch(r.Context(), id); err != nil {
		h.binder.Fail(w, r, nav, err, routes.Match(int(id)))
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Match ended")
	http.Redirect(w, r, routes.Match(int(id)), http.StatusSeeOther)
}

// Delete removes a match
func (h *MatchesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	if _, err := client.DeleteMatch(r.Context(), id); err != nil {
		h.binder.Fail(w, r, nav, err, routes.Matches)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Match deleted")
	http.Redirect(w, r, routes.Matches, http.StatusSeeOther)
}

// SaveRound records (or corrects) a round for the selected players
func (h *MatchesHandler) SaveRound(w http.ResponseWriter, r *http.Request) {
	id, ok := matchID(w, r)
	if !ok {
		return
	}
	target := routes.Match(int(id))

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	roundID, errRound := strconv.Atoi(r.FormValue("round"))
	points, errPoints := strconv.Atoi(r.FormValue("points"))
	users, errUsers := formPlayers(r.Form["users"])
	if err := errors.Join(errRound, errPoints, errUsers); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Round, points and players must be numbers")
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	in := model.RoundInput{
		MatchID: id,
		RoundID: roundID,
		Points:  points,
		UserIDs: users,
	}
	update := r.FormValue("update") != ""

	client, nav := h.binder.Client(r)
	if _, err := client.SaveRound(r.Context(), in, update); err != nil {
		h.binder.Fail(w, r, nav, err, target)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Round "+strconv.Itoa(roundID)+" saved")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// scoreSheet lays out the rounds of a match with one column per player,
// and returns the per-player totals and the next unused round number
func scoreSheet(m model.Match) ([]pages.ScoreRow, []int, int) {
	column := make(map[model.PlayerID]int, len(m.Users))
	for i, u := range m.Users {
		column[u.ID] = i
	}

	byRound := make(map[int][]string)
	totals := make([]int, len(m.Users))
	for _, round := range m.Rounds {
		col, ok := column[round.User.ID]
		if !ok {
			continue
		}
		points, ok := byRound[round.RoundID]
		if !ok {
			points = make([]string, len(m.Users))
			byRound[round.RoundID] = points
		}
		points[col] = strconv.Itoa(round.Points)
		totals[col] += round.Points
	}

	ids := make([]int, 0, len(byRound))
	for id := range byRound {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rows := make([]pages.ScoreRow, len(ids))
	for i, id := range ids {
		rows[i] = pages.ScoreRow{RoundID: id, Points: byRound[id]}
	}

	next := 1
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}
	return rows, totals, next
}

func formPlayers(values []string) ([]model.PlayerID, error) {
	out := make([]model.PlayerID, 0, len(values))
	for _, v := range values {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out = append(out, model.PlayerID(id))
	}
	return out, nil
}

func matchID(w http.ResponseWriter, r *http.Request) (model.MatchID, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		middleware.SetFlash(w, middleware.FlashError, "Invalid match")
		http.Redirect(w, r, routes.Matches, http.StatusSeeOther)
		return 0, false
	}
	return model.MatchID(id), true
}
