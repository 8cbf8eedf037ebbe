package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/scorekeeper/internal/middleware"
	"github.com/mcoot/scorekeeper/internal/web/templates/layout"
	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// Recovery turns a panic into the console's error page. The page quotes the
// request id so a report can be matched to the logged stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, renderPanic)
}

func renderPanic(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)

	data := pages.ErrorData{
		PageData:  layout.PageData{Title: "Error"},
		RequestID: middleware.RequestID(r.Context()),
	}
	if err := pages.Error(data).Render(r.Context(), w); err != nil {
		_, _ = w.Write([]byte("Internal Server Error"))
	}
}
