package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/scorekeeper/internal/web/templates/components"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
)

const backToDashboard = `<p><a href="/dashboard">Return to the dashboard</a></p>` + "\n"

// Login renders the sign-in form
func Login(data LoginData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(ctx context.Context, h *components.HTML) {
		h.Raw("<h1>Sign in</h1>\n")
		h.Render(ctx, components.ErrorMessage(data.Error))
		h.Raw(`<form method="post" action="/login" id="login-form">`, "\n", `<input type="hidden" name="next"`)
		h.Attr("value", data.Next)
		h.Raw(">\n", `<p><label>Username <input name="username"`)
		h.Attr("value", data.Username)
		h.Raw(` autocomplete="username" required></label></p>`, "\n",
			`<p><label>Password <input type="password" name="password" autocomplete="current-password" required></label></p>`, "\n",
			`<p><button type="submit">Sign in</button></p>`, "\n</form>\n")
	}))
}

// NotFound renders the 404 page
func NotFound(data layout.PageData) templ.Component {
	return layout.Page(data, components.Component(func(_ context.Context, h *components.HTML) {
		h.Raw("<h1>Page not found</h1>\n<p>The page you were looking for does not exist.</p>\n", backToDashboard)
	}))
}

// Error renders the page shown after a handler panicked
func Error(data ErrorData) templ.Component {
	return layout.Page(data.PageData, components.Component(func(_ context.Context, h *components.HTML) {
		h.Raw("<h1>Something went wrong</h1>\n<p>Please try again later.</p>\n")
		if data.RequestID != "" {
			h.Raw(`<p>Reference: <code id="request-id">`)
			h.Text(data.RequestID)
			h.Raw("</code></p>\n")
		}
		h.Raw(backToDashboard)
	}))
}
