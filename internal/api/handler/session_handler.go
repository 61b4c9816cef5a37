package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-chart-dashboard/internal/dashboard"
)

// Login opens a dashboard session
// @Summary Log in
// @Description Open a session for a user, restoring their saved dashboard when one exists
// @Tags sessions
// @Accept json
// @Produce json
// @Param credentials body map[string]string false "Optional {\"user\": \"name\"}, defaults to \"default\""
// @Success 200 {object} map[string]interface{} "Session token and restore flag"
// @Router /sessions [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User string `json:"user"`
	}
	// An empty body is a valid anonymous login
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.User == "" {
		body.User = "default"
	}

	token, restored := h.registry.Login(r.Context(), body.User)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"restored": restored,
	})
}

// Logout closes a dashboard session
// @Summary Log out
// @Description Close the session and delete its saved dashboard, next login starts blank
// @Tags sessions
// @Produce json
// @Param Authorization header string true "Session token"
// @Success 200 {object} map[string]interface{} "Logout confirmation"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 500 {object} map[string]interface{} "Failed to clear saved dashboard"
// @Router /sessions [delete]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Logout(r.Context(), sessionToken(r)); err != nil {
		if errors.Is(err, dashboard.ErrNoSession) {
			respondError(w, http.StatusUnauthorized, "unknown session, log in first")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to clear saved dashboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out, saved dashboard cleared",
	})
}
