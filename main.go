package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amora_server/routes"
	"amora_server/services"
	"amora_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	photoService, err := services.NewPhotoService()
	if err != nil {
		log.Printf("⚠️ S3 presigner unavailable, photos will be served as raw keys: %v", err)
		photoService = nil
	}

	// Initialize Services
	queueService := &services.MatchQueueService{Dynamo: dynamoService}
	balanceService := &services.BalanceService{Dynamo: dynamoService}
	conversationService := &services.ConversationService{Dynamo: dynamoService}
	profileService := &services.ProfileService{Dynamo: dynamoService, Photos: photoService}
	registry := services.NewSessionRegistry()
	dispatcher := &services.NotificationDispatcher{Registry: registry}

	matchmaker := &services.MatchmakerService{
		Queue:         queueService,
		Ledger:        balanceService,
		Conversations: conversationService,
		Profiles:      profileService,
		Notifier:      dispatcher,
	}

	// Start the periodic match sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go matchmaker.RunSweep(ctx, sweepInterval())

	// Initialize the Socket.IO server for the /match namespace
	socketServer := socket.NewSocketServer(matchmaker, registry, jwtSecret)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server failed: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amora")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterMatchQueueRoutes(r, matchmaker, jwtSecret)
	routes.RegisterBalanceRoutes(r, balanceService, jwtSecret)
	r.Handle("/socket.io/", socketServer)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{Addr: ":" + port, Handler: corsHandler}

	// Stop the sweep and drain the server on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// sweepInterval reads MATCH_SWEEP_INTERVAL (e.g. "10s"), defaulting to 10s.
func sweepInterval() time.Duration {
	raw := os.Getenv("MATCH_SWEEP_INTERVAL")
	if raw == "" {
		return 10 * time.Second
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Printf("⚠️ Invalid MATCH_SWEEP_INTERVAL %q, using 10s", raw)
		return 10 * time.Second
	}
	return interval
}
