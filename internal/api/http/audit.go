package http

import (
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-school/internal/audit"
)

// ListEventsHandler serves GET /audit?key=&limit=, newest first.
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.URL.Query().Get("key"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := events.List(r.Context(), key, limit)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []audit.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
