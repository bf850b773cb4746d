package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/agrichain/agrichaingo/internal/ai"
	"github.com/agrichain/agrichaingo/internal/buildinfo"
	"github.com/agrichain/agrichaingo/internal/config"
	"github.com/agrichain/agrichaingo/internal/database"
	"github.com/agrichain/agrichaingo/internal/middleware"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/agrichain/agrichaingo/internal/trace"
	"github.com/agrichain/agrichaingo/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router with the application's collaborators.
type Router struct {
	*mux.Router
	db        *database.DB
	store     store.BatchStore
	trace     *trace.Service
	hub       *websocket.Hub
	suggester ai.RecipeSuggester
	cfg       *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, batchStore store.BatchStore, traceSvc *trace.Service, hub *websocket.Hub, suggester ai.RecipeSuggester, cfg *config.Config) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		store:     batchStore,
		trace:     traceSvc,
		hub:       hub,
		suggester: suggester,
		cfg:       cfg,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	authed := middleware.AuthMiddleware(cfg.JWTSecret)
	requireFarmer := middleware.RequireRole(models.RoleFarmer)

	// Batch routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authed)
	api.HandleFunc("/batches", requireFarmer(r.createBatch)).Methods("POST")
	api.HandleFunc("/batches", r.listBatches).Methods("GET")
	api.HandleFunc("/batches/{id}", r.getBatch).Methods("GET")
	api.HandleFunc("/batches/{id}/advance", r.advanceStage).Methods("POST")
	api.HandleFunc("/batches/{id}/readings", r.getReadings).Methods("GET")
	api.HandleFunc("/batches/{id}/metrics", r.getMetrics).Methods("GET")
	api.HandleFunc("/batches/{id}/shelf-life", r.getShelfLife).Methods("GET")
	api.HandleFunc("/batches/{id}/sustainability", r.getSustainability).Methods("GET")
	api.HandleFunc("/batches/{id}/alerts", r.getAlerts).Methods("GET")
	api.HandleFunc("/alerts/{id}/ack", r.acknowledgeAlert).Methods("POST")
	api.HandleFunc("/batches/{id}/ledger", r.getLedger).Methods("GET")
	api.HandleFunc("/batches/{id}/qr", r.getQRCode).Methods("GET")
	api.HandleFunc("/batches/{id}/certificate", r.getCertificate).Methods("GET")
	api.HandleFunc("/recipes", r.getRecipes).Methods("GET")

	// Public consumer surface: the QR code target must work unauthenticated
	r.HandleFunc("/trace/{id}", r.getBatchPublic).Methods("GET")
	r.HandleFunc("/trace/{id}/qr", r.getQRCode).Methods("GET")

	// Live readings
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWS(hub, w, req)
	})

	// Static files (dashboard build), when configured
	if publicDir := os.Getenv("FRONTEND_DIR"); publicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"viewers":   r.hub.ClientCount(),
		"commit":    buildinfo.CommitHash,
		"buildTime": buildinfo.BuildTime,
		"startTime": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
