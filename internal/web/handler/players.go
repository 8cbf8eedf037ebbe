package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/routes"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// PlayersHandler handles the player listing and player actions
type PlayersHandler struct {
	binder  *Binder
	listing *listing[model.Player]
	logger  *slog.Logger
}

// NewPlayersHandler creates a new PlayersHandler
func NewPlayersHandler(binder *Binder, store storage.Storage, logger *slog.Logger) *PlayersHandler {
	return &PlayersHandler{
		binder: binder,
		listing: &listing[model.Player]{
			name:     tables.PlayersTable,
			path:     routes.Players,
			schema:   tables.PlayerSchema,
			defaults: tables.PlayerDefaults,
			columns:  tables.PlayerColumns,
			cell:     tables.PlayerCell,
			id:       func(p model.Player) int { return int(p.ID) },
			storage:  store,
			logger:   logger,
		},
		logger: logger,
	}
}

// List renders the filtered, sorted and paginated player listing
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	client, nav := h.binder.Client(r)

	players, err := client.ListPlayers(r.Context())
	if h.binder.Expired(w, r, nav) {
		return
	}

	data := pages.PlayersData{PageData: pageData(r, "Players", "players")}
	if err != nil {
		data.Error = h.binder.Message(r, err)
	}
	data.Table = h.listing.build(r.Context(), middleware.GetSession(r.Context()), r.URL.Query(), players)

	render(w, r, h.logger, http.StatusOK, pages.Players(data))
}

// Create adds a player
func (h *PlayersHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.form(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	player, err := client.CreatePlayer(r.Context(), in)
	if err != nil {
		h.binder.Fail(w, r, nav, err, routes.Players)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Player "+player.Username+" created")
	http.Redirect(w, r, routes.Players, http.StatusSeeOther)
}

// Update changes the non-empty fields of a player
func (h *PlayersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	in, ok := h.form(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	player, err := client.UpdatePlayer(r.Context(), id, in)
	if err != nil {
		h.binder.Fail(w, r, nav, err, routes.Players)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Player "+player.Username+" updated")
	http.Redirect(w, r, routes.Players, http.StatusSeeOther)
}

// Delete removes a player
func (h *PlayersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}

	client, nav := h.binder.Client(r)
	player, err := client.DeletePlayer(r.Context(), id)
	if err != nil {
		h.binder.Fail(w, r, nav, err, routes.Players)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Player "+player.Username+" deleted")
	http.Redirect(w, r, routes.Players, http.StatusSeeOther)
}

func (h *PlayersHandler) form(w http.ResponseWriter, r *http.Request) (model.PlayerInput, bool) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, routes.Players, http.StatusSeeOther)
		return model.PlayerInput{}, false
	}
	return model.PlayerInput{
		Username:  strings.TrimSpace(r.FormValue("username")),
		FirstName: strings.TrimSpace(r.FormValue("firstname")),
		LastName:  strings.TrimSpace(r.FormValue("lastname")),
		Password:  r.FormValue("password"),
	}, true
}

func playerID(w http.ResponseWriter, r *http.Request) (model.PlayerID, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		middleware.SetFlash(w, middleware.FlashError, "Invalid player")
		http.Redirect(w, r, routes.Players, http.StatusSeeOther)
		return 0, false
	}
	return model.PlayerID(id), true
}
