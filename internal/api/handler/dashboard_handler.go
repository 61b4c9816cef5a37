package handler

import (
	"encoding/json"
	"net/http"

	"go-chart-dashboard/internal/model"
)

// GetDashboard returns the whole dashboard state
// @Summary Dashboard state
// @Description Return the dashboard title, source file and charts in display order
// @Tags dashboard
// @Produce json
// @Param Authorization header string true "Session token"
// @Param sort query string false "date-desc, date-asc, title-asc, title-desc or type-asc" default(date-desc)
// @Success 200 {object} map[string]interface{} "Dashboard state"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	charts := ctrl.Charts(model.SortKey(r.URL.Query().Get("sort")))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dashboardTitle": ctrl.Title(),
		"fileName":       ctrl.FileName(),
		"hasData":        ctrl.HasData(),
		"charts":         charts,
		"count":          len(charts),
	})
}

// SetDashboardTitle renames the dashboard
// @Summary Set dashboard title
// @Description Replace the dashboard title with the provided string
// @Tags dashboard
// @Accept json
// @Produce json
// @Param Authorization header string true "Session token"
// @Param title body map[string]string true "{\"title\": \"...\"}"
// @Success 200 {object} map[string]interface{} "Updated title"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/dashboard/title [put]
func (h *Handler) SetDashboardTitle(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	ctrl.SetTitle(body.Title)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Title updated",
		"dashboardTitle": ctrl.Title(),
	})
}
