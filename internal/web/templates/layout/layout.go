// Package layout holds the page chrome shared by every console page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/web/templates/components"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is shared by every page
type PageData struct {
	Title string
	// Nav is the highlighted navigation entry
	Nav   string
	User  *model.Credential
	Flash *FlashMessage
}

const styles = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2328}
nav.top{display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#24292f}
nav.top a{color:#f6f8fa;text-decoration:none}
nav.top a.active{font-weight:bold;text-decoration:underline}
nav.top .user{margin-left:auto;color:#f6f8fa}
nav.top .avatar{display:inline-block;border-radius:50%;background:#0969da;padding:.2rem .4rem;font-size:.8rem}
main{padding:1.5rem}
.flash{padding:.75rem 1.5rem}
.flash-success{background:#dafbe1}
.flash-error{background:#ffebe9}
.flash-info{background:#ddf4ff}
table{border-collapse:collapse;margin:1rem 0}
th,td{border-bottom:1px solid #d0d7de;padding:.4rem .8rem;text-align:left}
.pagination .current{font-weight:bold}
.error{color:#cf222e}
form.inline{display:inline}
`

var navEntries = []struct{ key, label, url string }{
	{"dashboard", "Dashboard", "/dashboard"},
	{"players", "Players", "/players"},
	{"matches", "Matches", "/matches"},
}

// Base wraps its children in the document, navigation and flash message
func Base(data PageData) templ.Component {
	return components.Component(func(ctx context.Context, h *components.HTML) {
		h.Raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n",
			`<meta charset="utf-8">`, "\n",
			`<meta name="viewport" content="width=device-width, initial-scale=1">`, "\n<title>")
		h.Text(data.Title + " · Scorekeeper")
		h.Raw("</title>\n<style>\n", styles, "</style>\n</head>\n<body>\n")

		h.Raw(`<nav class="top">`, "\n", `<a href="/dashboard" class="brand">Scorekeeper</a>`, "\n")
		if u := data.User; u != nil {
			for _, e := range navEntries {
				h.Raw("<a")
				h.Href(e.url)
				if data.Nav == e.key {
					h.Raw(` class="active"`)
				}
				h.Raw(">", e.label, "</a>\n")
			}
			initials := model.Player{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}.Initials()
			h.Raw(`<span class="user"`)
			h.Attr("title", u.FirstName+" "+u.LastName)
			h.Raw(`><span class="avatar">`)
			h.Text(initials)
			h.Raw("</span> ")
			h.Text(u.Username)
			h.Raw("</span>\n", `<form method="post" action="/logout" class="inline logout"><button type="submit">Log out</button></form>`, "\n")
		}
		h.Raw("</nav>\n")

		if f := data.Flash; f != nil {
			h.Raw("<div")
			h.Attr("class", "flash flash-"+f.Type)
			h.Raw(` role="status">`)
			h.Text(f.Message)
			h.Raw("</div>\n")
		}

		h.Raw("<main>\n")
		h.Render(templ.ClearChildren(ctx), templ.GetChildren(ctx))
		h.Raw("</main>\n</body>\n</html>\n")
	})
}

// Page renders content inside Base
func Page(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Base(data).Render(templ.WithChildren(ctx, content), w)
	})
}
