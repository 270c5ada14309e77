package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amora_server/middleware"
	"amora_server/models"
	"amora_server/services"
)

// MatchQueueController handles the synchronous surface of the match queue:
// enqueue, cancel, and status polling for clients without a live socket.
type MatchQueueController struct {
	Matchmaker *services.MatchmakerService
}

// NewMatchQueueController creates a new MatchQueueController instance
func NewMatchQueueController(matchmaker *services.MatchmakerService) *MatchQueueController {
	return &MatchQueueController{Matchmaker: matchmaker}
}

// RequestMatch handles POST /api/matchqueue
func (mc *MatchQueueController) RequestMatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, models.MatchRequestedPayload{Success: false, Message: "Not authenticated"})
		return
	}

	entry, err := mc.Matchmaker.RequestMatch(r.Context(), userID)
	switch {
	case errors.Is(err, services.ErrAlreadyWaiting):
		respondJSON(w, http.StatusBadRequest, models.MatchRequestedPayload{Success: false, Message: "You already have an active match request"})
	case errors.Is(err, services.ErrInsufficientBalance):
		respondJSON(w, http.StatusBadRequest, models.MatchRequestedPayload{Success: false, Message: "Insufficient balance"})
	case err != nil:
		respondJSON(w, http.StatusInternalServerError, models.MatchRequestedPayload{Success: false, Message: "Failed to request a match"})
	default:
		respondJSON(w, http.StatusOK, models.MatchRequestedPayload{Success: true, Message: "Match request queued", QueueID: entry.QueueID})
	}
}

// CancelMatch handles DELETE /api/matchqueue
func (mc *MatchQueueController) CancelMatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, models.MatchCanceledPayload{Success: false, Message: "Not authenticated"})
		return
	}

	err := mc.Matchmaker.CancelMatch(r.Context(), userID)
	switch {
	case errors.Is(err, services.ErrNotWaiting):
		respondJSON(w, http.StatusBadRequest, models.MatchCanceledPayload{Success: false, Message: "No active match request"})
	case err != nil:
		respondJSON(w, http.StatusInternalServerError, models.MatchCanceledPayload{Success: false, Message: "Failed to cancel match request"})
	default:
		respondJSON(w, http.StatusOK, models.MatchCanceledPayload{Success: true, Message: "Match request canceled"})
	}
}

// GetStatus handles GET /api/matchqueue/status. The polling surface resolves
// recent matches within the long window.
func (mc *MatchQueueController) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Not authenticated"})
		return
	}

	status, err := mc.Matchmaker.CheckStatus(r.Context(), userID, models.RecentMatchWindowPoll)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "Failed to check match status"})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
