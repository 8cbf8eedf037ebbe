package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// DashboardHandler renders the landing page
type DashboardHandler struct {
	binder *Binder
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(binder *Binder, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{binder: binder, logger: logger}
}

// View shows player and match counts and the matches still in progress
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	client, nav := h.binder.Client(r)

	var (
		players []model.Player
		matches []model.Match
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		players, err = client.ListPlayers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = client.ListMatches(ctx)
		return err
	})
	err := g.Wait()
	if h.binder.Expired(w, r, nav) {
		return
	}

	data := pages.DashboardData{PageData: pageData(r, "Dashboard", "dashboard")}
	if err != nil {
		data.Error = h.binder.Message(r, err)
		render(w, r, h.logger, http.StatusOK, pages.Dashboard(data))
		return
	}

	data.PlayerCount = len(players)
	data.MatchCount = len(matches)
	for _, m := range matches {
		if m.InProgress {
			data.Ongoing = append(data.Ongoing, m)
		}
	}
	data.InProgressCount = len(data.Ongoing)

	render(w, r, h.logger, http.StatusOK, pages.Dashboard(data))
}
