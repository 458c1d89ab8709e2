package handlers

import (
	"net/http"

	"solarsynergy/backend/services/controller/internal/catalog"
)

// NewStationsHandler returns GET /stations handler.
func NewStationsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.List())
	}
}
