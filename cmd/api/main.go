package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrichain/agrichaingo/internal/ai"
	"github.com/agrichain/agrichaingo/internal/config"
	"github.com/agrichain/agrichaingo/internal/database"
	"github.com/agrichain/agrichaingo/internal/feed"
	"github.com/agrichain/agrichaingo/internal/handlers"
	"github.com/agrichain/agrichaingo/internal/models"
	"github.com/agrichain/agrichaingo/internal/store"
	"github.com/agrichain/agrichaingo/internal/trace"
	"github.com/agrichain/agrichaingo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-migrate schema (critical for zero-config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Batch{},
		&models.Stage{},
		&models.SensorReading{},
		&models.Alert{},
		&models.LedgerEntry{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire the lifecycle engine to the database-backed store
	batchStore := store.NewGormStore(db.DB)
	traceSvc := trace.NewService(batchStore, nil)

	// 5. Start the websocket hub for live sensor streams
	hub := websocket.NewHub()
	go hub.Run()

	// 6. Start the simulated sensor feed
	var simulator *feed.Simulator
	if cfg.Feed.Enabled {
		simulator = feed.NewSimulator(db.DB, hub,
			time.Duration(cfg.Feed.IntervalSeconds)*time.Second,
			cfg.Feed.RetainSamples)
		if err := simulator.Start(); err != nil {
			log.Printf("⚠️ Sensor feed: failed to start: %v", err)
		} else {
			log.Println("✅ Sensor feed: started")
		}
	}

	// 7. Recipe suggester (Gemini when a key is set, canned otherwise)
	suggester := ai.NewSuggester(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)

	// 8. Set up HTTP router
	router := handlers.NewRouter(db, batchStore, traceSvc, hub, suggester, cfg)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 AgriChain server (%s) starting on port %s\n", cfg.Env, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the sensor feed
	if simulator != nil {
		simulator.Stop()
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
