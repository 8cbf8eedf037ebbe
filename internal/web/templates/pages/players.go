package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/web/templates/components"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

// Players renders the player listing with the add-player form
func Players(data PlayersData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(ctx context.Context, h *components.HTML) {
		h.Raw("<h1>Players</h1>\n")
		h.Render(ctx, components.ErrorMessage(data.Error))
		h.Raw(`<details class="create">`, "\n<summary>Add player</summary>\n",
			`<form method="post" action="/players" id="create-player">`, "\n",
			`<input name="username" placeholder="Username" required>`, "\n",
			`<input name="firstname" placeholder="First name">`, "\n",
			`<input name="lastname" placeholder="Last name">`, "\n",
			`<input type="password" name="password" placeholder="Password">`, "\n",
			`<button type="submit">Add</button>`, "\n</form>\n</details>\n")
		h.Render(ctx, components.Table(data.Table, playerActions))
	}))
}

func playerActions(row components.Row) templ.Component {
	return components.Component(func(_ context.Context, h *components.HTML) {
		path := "/players/" + strconv.Itoa(row.ID)
		h.Raw(`<details class="edit">`, "\n<summary>Edit</summary>\n", `<form method="post"`)
		h.Attr("action", path)
		h.Raw(` class="update-player">`, "\n",
			`<input name="username" placeholder="Username">`, "\n",
			`<input name="firstname" placeholder="First name">`, "\n",
			`<input name="lastname" placeholder="Last name">`, "\n",
			`<button type="submit">Save</button>`, "\n</form>\n</details>\n")
		postButton(h, path+"/delete", "inline delete-player", "Delete")
	})
}

// postButton writes a single-button form posting to action
func postButton(h *components.HTML, action, class, label string) {
	h.Raw(`<form method="post"`)
	h.Attr("action", action)
	h.Attr("class", class)
	h.Raw(`><button type="submit">`)
	h.Text(label)
	h.Raw("</button></form>\n")
}
