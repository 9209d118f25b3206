package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	applog "crumb/internal/log"
	"crumb/models"
)

var (
	errInvalidFormulaID = errors.New("handlers: invalid formula id")
	nowFunc             = time.Now
)

type formulaResponse struct {
	Formula models.Formula `json:"formula"`
	CanUndo bool           `json:"can_undo"`
	CanRedo bool           `json:"can_redo"`
}

type formulaListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := currentUserID(r)
	if !ok {
		applog.Debug(r.Context(), "formula request missing authenticated user")
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

func formulaIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "formulaID"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidFormulaID
	}
	return id, nil
}

// loadFormula resolves the signed-in user and the latest version of the
// formula named in the URL. It writes the error response itself.
func loadFormula(w http.ResponseWriter, r *http.Request) (uint, models.Formula, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return 0, models.Formula{}, false
	}
	id, err := formulaIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid formula id.")
		return 0, models.Formula{}, false
	}
	f, _, err := formulas.Latest(r.Context(), userID, id)
	if err != nil {
		writeStoreError(w, r, err, "load the formula")
		return 0, models.Formula{}, false
	}
	return userID, f, true
}

func writeFormula(w http.ResponseWriter, status int, userID uint, f models.Formula) {
	canUndo, canRedo := histories.status(userID, f.ID)
	writeJSON(w, status, formulaResponse{Formula: f, CanUndo: canUndo, CanRedo: canRedo})
}

// ListFormulas returns the latest version of every formula the user owns.
func ListFormulas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	records, err := formulas.List(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, err, "list formulas")
		return
	}

	items := make([]formulaListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, formulaListItem{
			ID:        rec.FormulaID,
			Name:      rec.Name,
			Version:   rec.Version,
			UpdatedAt: rec.CreatedAt.UTC(),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateFormula stores the posted formula as version 1 of a new formula.
func CreateFormula(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var f models.Formula
	if err := decodeJSON(w, r, &f); err != nil {
		applog.Debug(r.Context(), "invalid formula payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Invalid formula payload.")
		return
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "A formula name is required.")
		return
	}

	now := nowFunc().UTC()
	f.ID = uuid.Nil
	f.Version = 1
	f.CreatedAt = now
	f.LastModified = now

	created, _, err := formulas.Create(r.Context(), userID, f)
	if err != nil {
		writeStoreError(w, r, err, "create the formula")
		return
	}
	applog.Info(r.Context(), "formula created", "formulaID", created.ID, "userID", userID)
	writeFormula(w, http.StatusCreated, userID, created)
}

// GetFormula returns the latest version of one formula.
func GetFormula(w http.ResponseWriter, r *http.Request) {
	userID, f, ok := loadFormula(w, r)
	if !ok {
		return
	}
	writeFormula(w, http.StatusOK, userID, f)
}

// UpdateFormula replaces a formula's content with the posted body, appending
// a new version.
func UpdateFormula(w http.ResponseWriter, r *http.Request) {
	userID, current, ok := loadFormula(w, r)
	if !ok {
		return
	}

	var f models.Formula
	if err := decodeJSON(w, r, &f); err != nil {
		applog.Debug(r.Context(), "invalid formula payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Invalid formula payload.")
		return
	}
	f.ID = current.ID
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		f.Name = current.Name
	}
	f.CreatedAt = current.CreatedAt
	f.LastModified = nowFunc().UTC()

	saved, _, err := formulas.SaveVersion(r.Context(), userID, f)
	if err != nil {
		writeStoreError(w, r, err, "save the formula")
		return
	}
	histories.record(userID, current, saved)
	writeFormula(w, http.StatusOK, userID, saved)
}

// DeleteFormula removes a formula and every stored version of it.
func DeleteFormula(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := formulaIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid formula id.")
		return
	}

	if err := formulas.Delete(r.Context(), userID, id); err != nil {
		writeStoreError(w, r, err, "delete the formula")
		return
	}
	histories.forget(userID, id)
	w.WriteHeader(http.StatusNoContent)
}
