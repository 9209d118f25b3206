package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"crumb/internal/history"
	applog "crumb/internal/log"
	"crumb/internal/store"
	"crumb/models"
)

type historyKey struct {
	owner   uint
	formula uuid.UUID
}

// historyRegistry keeps one in-memory undo history per owner and formula.
type historyRegistry struct {
	mu      sync.Mutex
	limit   int
	entries map[historyKey]*history.History[models.Formula]
}

func newHistoryRegistry(limit int) *historyRegistry {
	return &historyRegistry{limit: limit, entries: make(map[historyKey]*history.History[models.Formula])}
}

// record notes that before was replaced by after. The first change to a
// formula seeds its history with the state it replaced.
func (h *historyRegistry) record(owner uint, before, after models.Formula) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := historyKey{owner: owner, formula: after.ID}
	entry, ok := h.entries[key]
	if !ok {
		entry = history.New(before, h.limit)
		h.entries[key] = entry
	}
	entry.Push(after)
}

func (h *historyRegistry) undo(owner uint, id uuid.UUID) (models.Formula, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.entries[historyKey{owner: owner, formula: id}]
	if !ok {
		return models.Formula{}, false
	}
	return entry.Undo()
}

func (h *historyRegistry) redo(owner uint, id uuid.UUID) (models.Formula, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.entries[historyKey{owner: owner, formula: id}]
	if !ok {
		return models.Formula{}, false
	}
	return entry.Redo()
}

func (h *historyRegistry) status(owner uint, id uuid.UUID) (canUndo, canRedo bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, ok := h.entries[historyKey{owner: owner, formula: id}]
	if !ok {
		return false, false
	}
	return entry.CanUndo(), entry.CanRedo()
}

func (h *historyRegistry) forget(owner uint, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entries, historyKey{owner: owner, formula: id})
}

type versionItem struct {
	Version        int       `json:"version"`
	Name           string    `json:"name"`
	IsLatest       bool      `json:"is_latest"`
	ParentRecordID *uint     `json:"parent_record_id,omitempty"`
	SavedAt        time.Time `json:"saved_at"`
}

type revertRequest struct {
	Version int `json:"version"`
}

// ListFormulaVersions returns every stored version of a formula, newest first.
func ListFormulaVersions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := formulaIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid formula id.")
		return
	}

	records, err := formulas.Versions(r.Context(), userID, id)
	if err != nil {
		writeStoreError(w, r, err, "list formula versions")
		return
	}

	items := make([]versionItem, 0, len(records))
	for _, rec := range records {
		items = append(items, versionItem{
			Version:        rec.Version,
			Name:           rec.Name,
			IsLatest:       rec.IsLatest,
			ParentRecordID: rec.ParentRecordID,
			SavedAt:        rec.CreatedAt.UTC(),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// RevertFormula copies a stored version forward as the newest version.
func RevertFormula(w http.ResponseWriter, r *http.Request) {
	userID, current, ok := loadFormula(w, r)
	if !ok {
		return
	}

	var req revertRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Version <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Provide the positive version number to revert to.")
		return
	}

	reverted, _, err := formulas.Revert(r.Context(), userID, current.ID, req.Version)
	if err != nil {
		writeStoreError(w, r, err, "revert the formula")
		return
	}
	histories.record(userID, current, reverted)
	writeFormula(w, http.StatusOK, userID, reverted)
}

// UndoFormula restores the state before the last change made in this session.
func UndoFormula(w http.ResponseWriter, r *http.Request) {
	stepHistory(w, r, "undo", histories.undo)
}

// RedoFormula reapplies the change most recently undone.
func RedoFormula(w http.ResponseWriter, r *http.Request) {
	stepHistory(w, r, "redo", histories.redo)
}

func stepHistory(w http.ResponseWriter, r *http.Request, action string, step func(uint, uuid.UUID) (models.Formula, bool)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := formulaIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid formula id.")
		return
	}

	state, ok := step(userID, id)
	if !ok {
		writeJSONError(w, http.StatusConflict, "There is nothing to "+action+".")
		return
	}

	state.LastModified = nowFunc().UTC()
	saved, _, err := formulas.SaveVersion(r.Context(), userID, state)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			histories.forget(userID, id)
		}
		writeStoreError(w, r, err, action+" the change")
		return
	}
	applog.Debug(r.Context(), "formula history step applied", "action", action, "formulaID", id, "version", saved.Version)
	writeFormula(w, http.StatusOK, userID, saved)
}
