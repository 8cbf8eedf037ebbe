package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/scorekeeper/internal/web/templates/pages"
)

// NotFound renders the 404 page
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, logger, http.StatusNotFound, pages.NotFound(pageData(r, "Not found", "")))
	}
}
