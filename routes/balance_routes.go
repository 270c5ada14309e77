package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterBalanceRoutes sets up routes for balance operations under /api/balance
func RegisterBalanceRoutes(r *mux.Router, balanceService *services.BalanceService, jwtSecret string) {
	controller := controllers.NewBalanceController(balanceService)

	balanceRouter := r.PathPrefix("/api/balance").Subrouter()
	balanceRouter.Use(middleware.Auth(jwtSecret))

	balanceRouter.HandleFunc("", controller.GetBalance).Methods("GET")
	balanceRouter.HandleFunc("/credit", controller.Credit).Methods("POST")
}
