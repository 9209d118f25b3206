package handlers

import (
	"errors"
	"net/http"

	applog "crumb/internal/log"
	"crumb/internal/scaling"
	"crumb/models"
)

const (
	scaleModeYield      = "yield"
	scaleModeIngredient = "ingredient"
	scaleModeMisweigh   = "misweigh"
)

var (
	errUnknownScaleMode  = errors.New("handlers: unknown scale mode")
	errMissingIngredient = errors.New("handlers: scale mode requires an ingredient")
)

type scaleRequest struct {
	Mode           string                `json:"mode"`
	Pieces         int                   `json:"pieces"`
	WeightPerPiece float64               `json:"weight_per_piece"`
	Ingredient     *models.IdentifierRef `json:"ingredient"`
	Target         float64               `json:"target"`
	Actual         float64               `json:"actual"`
	Preview        bool                  `json:"preview"`
}

type scaleResponse struct {
	Formula  models.Formula             `json:"formula"`
	Changed  bool                       `json:"changed"`
	Saved    bool                       `json:"saved"`
	Misweigh *scaling.MisweighReference `json:"misweigh,omitempty"`
	CanUndo  bool                       `json:"can_undo"`
	CanRedo  bool                       `json:"can_redo"`
}

// applyScale runs the requested scaling operation against f. Degenerate
// requests leave the formula unchanged rather than failing.
func applyScale(f models.Formula, req scaleRequest) (models.Formula, *scaling.MisweighReference, error) {
	switch req.Mode {
	case scaleModeYield:
		return scaling.ScaleByYield(f, req.Pieces, req.WeightPerPiece), nil, nil
	case scaleModeIngredient, scaleModeMisweigh:
		if req.Ingredient == nil {
			return models.Formula{}, nil, errMissingIngredient
		}
		id, err := req.Ingredient.Identifier()
		if err != nil {
			return models.Formula{}, nil, err
		}
		if req.Mode == scaleModeIngredient {
			return scaling.ScaleByIngredient(f, id, req.Target), nil, nil
		}
		corrected, ref := scaling.CorrectMisweigh(f, scaling.Measurement{Identifier: id, Actual: req.Actual})
		return corrected, &ref, nil
	default:
		return models.Formula{}, nil, errUnknownScaleMode
	}
}

// ScaleFormula scales a formula by yield, by one ingredient's target weight,
// or around a misweighed ingredient. Unless the request is a preview, a
// changed formula is stored as a new version.
func ScaleFormula(w http.ResponseWriter, r *http.Request) {
	userID, current, ok := loadFormula(w, r)
	if !ok {
		return
	}

	var req scaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scale request.")
		return
	}

	scaled, misweigh, err := applyScale(current, req)
	if err != nil {
		applog.Debug(r.Context(), "rejecting scale request", "mode", req.Mode, "error", err)
		switch {
		case errors.Is(err, errUnknownScaleMode):
			writeJSONError(w, http.StatusBadRequest, `Choose a scale mode of "yield", "ingredient" or "misweigh".`)
		case errors.Is(err, errMissingIngredient):
			writeJSONError(w, http.StatusBadRequest, "Select the ingredient to scale by.")
		default:
			writeJSONError(w, http.StatusBadRequest, "The selected ingredient reference is invalid.")
		}
		return
	}

	resp := scaleResponse{Formula: scaled, Changed: scaled.Version != current.Version, Misweigh: misweigh}
	if resp.Changed && !req.Preview {
		saved, _, err := formulas.SaveVersion(r.Context(), userID, scaled)
		if err != nil {
			writeStoreError(w, r, err, "save the scaled formula")
			return
		}
		histories.record(userID, current, saved)
		resp.Formula = saved
		resp.Saved = true
		applog.Info(r.Context(), "formula scaled", "formulaID", saved.ID, "mode", req.Mode, "version", saved.Version)
	}
	resp.CanUndo, resp.CanRedo = histories.status(userID, current.ID)
	writeJSON(w, http.StatusOK, resp)
}
