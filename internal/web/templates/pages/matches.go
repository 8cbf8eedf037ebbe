package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/web/templates/components"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

// Matches renders the match listing with the new-match form
func Matches(data MatchesData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(ctx context.Context, h *components.HTML) {
		h.Raw("<h1>Matches</h1>\n")
		h.Render(ctx, components.ErrorMessage(data.Error))
		h.Raw(`<details class="create">`, "\n<summary>New match</summary>\n",
			`<form method="post" action="/matches" id="create-match">`, "\n")
		playerChoices(h, data.Players)
		h.Raw("<label>Location\n", `<select name="location">`, "\n", `<option value="">None</option>`, "\n")
		for _, loc := range data.Locations {
			h.Raw("<option")
			h.Attr("value", strconv.Itoa(loc.ID))
			h.Raw(">")
			h.Text(loc.Name)
			h.Raw("</option>\n")
		}
		h.Raw("</select>\n</label>\n", `<button type="submit">Start match</button>`, "\n</form>\n</details>\n")
		h.Render(ctx, components.Table(data.Table, matchActions))
	}))
}

func matchActions(row components.Row) templ.Component {
	return components.Component(func(_ context.Context, h *components.HTML) {
		path := "/matches/" + strconv.Itoa(row.ID)
		h.Raw("<a")
		h.Href(path)
		h.Raw(">Open</a>\n")
		if row.Open {
			postButton(h, path+"/end", "inline end-match", "End")
		}
		postButton(h, path+"/delete", "inline delete-match", "Delete")
	})
}

// playerChoices writes a fieldset with one checkbox per player
func playerChoices(h *components.HTML, players []model.Player) {
	h.Raw("<fieldset>\n<legend>Players</legend>\n")
	for _, p := range players {
		h.Raw(`<label><input type="checkbox" name="users"`)
		h.Attr("value", strconv.Itoa(int(p.ID)))
		h.Raw("> ")
		h.Text(p.Username)
		h.Raw("</label>\n")
	}
	h.Raw("</fieldset>\n")
}

// Match renders one match with its score sheet and, while it is in
// progress, the round form
func Match(data MatchData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(_ context.Context, h *components.HTML) {
		m := data.Match
		path := "/matches/" + strconv.Itoa(int(m.ID))

		h.Raw("<h1>Match #", strconv.Itoa(int(m.ID)), "</h1>\n", `<p class="meta">`, "\n")
		if loc := m.LocationName(); loc != "" {
			h.Raw(`<span class="location">`)
			h.Text(loc)
			h.Raw("</span> · ")
		}
		h.Raw(`<span class="status">`)
		if m.InProgress {
			h.Raw("In progress")
		} else {
			h.Raw("Finished")
		}
		h.Raw("</span>\n</p>\n")

		h.Raw(`<table class="scores">`, "\n<thead>\n<tr><th>Round</th>")
		for _, u := range m.Users {
			h.Raw("<th")
			h.Attr("data-player", strconv.Itoa(int(u.ID)))
			h.Raw(">")
			h.Text(u.Username)
			h.Raw("</th>")
		}
		h.Raw("</tr>\n</thead>\n<tbody>\n")
		for _, round := range data.Rounds {
			id := strconv.Itoa(round.RoundID)
			h.Raw("<tr")
			h.Attr("data-round", id)
			h.Raw("><td>", id, "</td>")
			for _, pts := range round.Points {
				h.Raw("<td>")
				h.Text(pts)
				h.Raw("</td>")
			}
			h.Raw("</tr>\n")
		}
		h.Raw("</tbody>\n<tfoot>\n", `<tr class="totals"><th>Total</th>`)
		for _, total := range data.Totals {
			h.Raw("<td>", strconv.Itoa(total), "</td>")
		}
		h.Raw("</tr>\n</tfoot>\n</table>\n")

		if m.InProgress {
			h.Raw(`<form method="post"`)
			h.Attr("action", path+"/rounds")
			h.Raw(` id="save-round">`, "\n",
				`<label>Round <input type="number" name="round" min="1"`)
			h.Attr("value", strconv.Itoa(data.NextRound))
			h.Raw(` required></label>`, "\n",
				`<label>Points <input type="number" name="points" min="0" value="0" required></label>`, "\n")
			playerChoices(h, m.Users)
			h.Raw(`<label><input type="checkbox" name="update" value="1"> Correct an existing round</label>`, "\n",
				`<button type="submit">Save round</button>`, "\n</form>\n")
			postButton(h, path+"/end", "inline end-match", "End match")
		}
		postButton(h, path+"/delete", "inline delete-match", "Delete match")
		h.Raw(`<p><a href="/matches">Back to matches</a></p>`, "\n")
	}))
}
