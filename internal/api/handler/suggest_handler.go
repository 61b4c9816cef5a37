package handler

import (
	"fmt"
	"net/http"

	"go-chart-dashboard/internal/model"
)

// Suggestions asks the AI advisor for chart ideas
// @Summary Suggest charts
// @Description Ask the AI advisor for charts that fit the loaded dataset. Advisor failures degrade to an empty batch, never an error.
// @Tags suggestions
// @Produce json
// @Param Authorization header string true "Session token"
// @Success 200 {object} map[string]interface{} "Validated suggestions, possibly empty"
// @Failure 400 {object} map[string]interface{} "No dataset loaded"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/suggestions [post]
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ds := ctrl.Dataset()
	if ds == nil {
		respondError(w, http.StatusBadRequest, "no dataset loaded")
		return
	}

	suggestions := []model.Suggestion{}
	if h.suggester == nil {
		fmt.Printf("❌ Suggest: no advisor configured, returning empty batch\n")
	} else if got, err := h.suggester.Suggest(r.Context(), ds); err != nil {
		fmt.Printf("❌ Suggest: advisor failed, returning empty batch: %v\n", err)
	} else {
		suggestions = got
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
