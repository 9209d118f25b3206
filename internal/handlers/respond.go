package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"gorm.io/gorm"

	"crumb/internal/importer"
	applog "crumb/internal/log"
	"crumb/internal/store"
)

const maxJSONBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeStoreError maps persistence failures onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, gorm.ErrInvalidDB):
		writeJSONError(w, http.StatusServiceUnavailable, "Formulas are unavailable because no database connection is configured.")
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "The formula does not exist.")
	case errors.Is(err, store.ErrVersionNotFound):
		writeJSONError(w, http.StatusNotFound, "The requested formula version does not exist.")
	case errors.Is(err, importer.ErrEmptySource):
		writeJSONError(w, http.StatusUnprocessableEntity, "The uploaded sheet contains no formula.")
	case errors.Is(err, importer.ErrNoFlour):
		writeJSONError(w, http.StatusUnprocessableEntity, "The uploaded sheet has no flour.")
	case errors.Is(err, importer.ErrUnsupportedType):
		writeJSONError(w, http.StatusUnsupportedMediaType, "Upload a plain text or PDF sheet.")
	default:
		var lineErr *importer.LineError
		if errors.As(err, &lineErr) {
			writeJSONError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Line %d of the sheet could not be read: %v", lineErr.Line, lineErr.Err))
			return
		}
		applog.Error(r.Context(), "formula request failed", "action", action, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "We were unable to "+action+". Please try again.")
	}
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
