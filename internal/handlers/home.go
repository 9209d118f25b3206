package handlers

import (
	"net/http"

	"crumb/internal/aggregate"
	"crumb/internal/formatting"
	applog "crumb/internal/log"
	"crumb/internal/store"
	"crumb/internal/views/pages"
	"crumb/models"
)

// Home sends visitors to their workspace or to the sign-in page.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	redirectToLogin(w, r)
}

// Workspace renders the signed-in baker's formula index.
func Workspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}

	records, err := formulas.List(r.Context(), userID)
	if err != nil {
		applog.Error(r.Context(), "failed to load workspace formulas", "error", err)
		http.Error(w, "We were unable to load your formulas. Please try again.", http.StatusInternalServerError)
		return
	}

	data := pages.WorkspaceData{Formulas: make([]pages.FormulaSummary, 0, len(records))}
	if sessionManager != nil {
		data.UserName = sessionManager.GetString(r.Context(), sessionUserNameKey)
	}
	for _, rec := range records {
		f, err := store.Decode(rec)
		if err != nil {
			applog.Warn(r.Context(), "skipping unreadable formula", "formulaID", rec.FormulaID, "error", err)
			continue
		}
		data.Formulas = append(data.Formulas, pages.FormulaSummary{
			ID:        f.ID.String(),
			Name:      f.Name,
			Version:   f.Version,
			Hydration: formatting.Percent(aggregate.Hydration(f), models.DefaultPrecision),
			UpdatedAt: pages.FormatSheetDate(rec.CreatedAt.UTC()),
		})
	}
	renderComponent(w, r, pages.Workspace(data))
}
