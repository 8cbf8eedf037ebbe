package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/web/templates/components"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

// Dashboard renders the counters and the matches still in progress
func Dashboard(data DashboardData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(ctx context.Context, h *components.HTML) {
		h.Raw("<h1>Dashboard</h1>\n")
		h.Render(ctx, components.ErrorMessage(data.Error))
		h.Raw(`<dl class="stats">`, "\n",
			`<dt>Players</dt><dd id="player-count">`, strconv.Itoa(data.PlayerCount), "</dd>\n",
			`<dt>Matches</dt><dd id="match-count">`, strconv.Itoa(data.MatchCount), "</dd>\n",
			`<dt>In progress</dt><dd id="in-progress-count">`, strconv.Itoa(data.InProgressCount), "</dd>\n",
			"</dl>\n<h2>Ongoing matches</h2>\n", `<ul class="ongoing">`, "\n")
		for _, m := range data.Ongoing {
			id := strconv.Itoa(int(m.ID))
			h.Raw("<li><a")
			h.Href("/matches/" + id)
			h.Raw(">Match #", id, "</a>")
			if loc := m.LocationName(); loc != "" {
				h.Raw(" at ")
				h.Text(loc)
			}
			h.Raw("</li>\n")
		}
		if len(data.Ongoing) == 0 {
			h.Raw(`<li class="empty">No matches in progress</li>`, "\n")
		}
		h.Raw("</ul>\n")
	}))
}
