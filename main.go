package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	appservices "github.com/jianancybercoder/nextDoppl/internal/application/services"
	"github.com/jianancybercoder/nextDoppl/internal/application/usecases"
	domainservices "github.com/jianancybercoder/nextDoppl/internal/domain/services"
	"github.com/jianancybercoder/nextDoppl/internal/infrastructure/api"
	"github.com/jianancybercoder/nextDoppl/internal/infrastructure/external"
	"github.com/jianancybercoder/nextDoppl/internal/infrastructure/repositories"
	infraservices "github.com/jianancybercoder/nextDoppl/internal/infrastructure/services"
)

const (
	sessionTTL      = 30 * time.Minute
	cleanupInterval = 10 * time.Minute
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("[boot] Loaded .env")
	}

	// Server-side fallback key; requests may carry their own via X-API-Key.
	defaultAPIKey := os.Getenv("GEMINI_API_KEY")
	if defaultAPIKey == "" {
		log.Printf("[boot] GEMINI_API_KEY not set; every request must supply its own key")
	}

	// Initialize infrastructure layer
	clientPool := infraservices.NewGenAIClientPool()
	defer clientPool.Close()

	tryOnService := external.NewGeminiTryOnService(clientPool)
	sessionRepository := repositories.NewCacheSessionRepository(sessionTTL, cleanupInterval)

	// Initialize domain layer
	tryOnDomainService := domainservices.NewTryOnDomainService(tryOnService)

	// Initialize application layer
	phaseSimulator := appservices.NewPhaseSimulator(sessionRepository)
	tryOnUseCase := usecases.NewTryOnUseCase(sessionRepository, tryOnDomainService, phaseSimulator)
	parameterService := appservices.NewParameterService()

	// Initialize API layer
	handler := api.NewTryOnHandler(tryOnUseCase, parameterService, defaultAPIKey)

	// Setup routes
	r := mux.NewRouter()
	r.Use(api.NewRateLimitMiddleware(2, 5))
	r.HandleFunc("/", handler.HandleIndex).Methods("GET")
	r.HandleFunc("/tryon", handler.HandleTryOn).Methods("POST")
	r.HandleFunc("/tryon/async", handler.HandleTryOnAsync).Methods("POST")
	r.HandleFunc("/tryon/{id}", handler.HandleStatus).Methods("GET")
	r.HandleFunc("/healthz", handler.HandleHealth).Methods("GET")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
