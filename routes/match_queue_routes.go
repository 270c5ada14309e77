package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchQueueRoutes sets up routes for the match queue under /api/matchqueue
func RegisterMatchQueueRoutes(r *mux.Router, matchmaker *services.MatchmakerService, jwtSecret string) {
	controller := controllers.NewMatchQueueController(matchmaker)

	queueRouter := r.PathPrefix("/api/matchqueue").Subrouter()
	queueRouter.Use(middleware.Auth(jwtSecret))

	queueRouter.HandleFunc("", controller.RequestMatch).Methods("POST")
	queueRouter.HandleFunc("", controller.CancelMatch).Methods("DELETE")
	queueRouter.HandleFunc("/status", controller.GetStatus).Methods("GET")
}
