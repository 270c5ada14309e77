package controllers

import (
	"encoding/json"
	"net/http"

	"amora_server/middleware"
	"amora_server/services"
)

// BalanceController exposes a user's credit balance and top-ups.
type BalanceController struct {
	BalanceService *services.BalanceService
}

// NewBalanceController creates a new BalanceController instance
func NewBalanceController(balanceService *services.BalanceService) *BalanceController {
	return &BalanceController{BalanceService: balanceService}
}

// GetBalance handles GET /api/balance
func (bc *BalanceController) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Not authenticated"})
		return
	}

	balance, err := bc.BalanceService.GetBalance(r.Context(), userID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "Failed to fetch balance"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"userId": userID, "balance": balance})
}

// Credit handles POST /api/balance/credit
func (bc *BalanceController) Credit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Not authenticated"})
		return
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "amount must be a positive integer"})
		return
	}

	if err := bc.BalanceService.Credit(r.Context(), userID, body.Amount); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "Failed to credit balance"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Balance credited"})
}
