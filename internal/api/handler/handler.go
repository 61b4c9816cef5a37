package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-chart-dashboard/internal/dashboard"
	"go-chart-dashboard/internal/model"
)

// Suggester proposes charts for a dataset. Wired to the Gemini client in
// production, faked in tests.
type Suggester interface {
	Suggest(ctx context.Context, ds *model.Dataset) ([]model.Suggestion, error)
}

// Handler carries the dependencies all endpoint handlers share.
type Handler struct {
	registry  *dashboard.Registry
	suggester Suggester
}

// New creates the API handler set. suggester may be nil when no AI service
// is configured; the suggestions endpoint then returns empty batches.
func New(registry *dashboard.Registry, suggester Suggester) *Handler {
	return &Handler{registry: registry, suggester: suggester}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// sessionToken pulls the session token from the Authorization header,
// with or without the Bearer prefix
func sessionToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// controller resolves the request's session. On failure it writes the 401
// itself and returns false.
func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*dashboard.Controller, bool) {
	ctrl, err := h.registry.Controller(sessionToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unknown session, log in first")
		return nil, false
	}
	return ctrl, true
}
