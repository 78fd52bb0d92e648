package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/sunless-engine/internal/config"
	"github.com/jwebster45206/sunless-engine/internal/events"
	"github.com/jwebster45206/sunless-engine/internal/handlers"
	"github.com/jwebster45206/sunless-engine/internal/logger"
	"github.com/jwebster45206/sunless-engine/internal/middleware"
	"github.com/jwebster45206/sunless-engine/internal/session"
	redisstorage "github.com/jwebster45206/sunless-engine/internal/storage"
	"github.com/jwebster45206/sunless-engine/pkg/storage"
	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Sunless Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"store_backend", cfg.StoreBackend)

	story, err := sunlesscv.Open(cfg.StoryDir)
	if err != nil {
		log.Error("Failed to load story", "error", err, "story_dir", cfg.StoryDir)
		os.Exit(1)
	}
	log.Info("Story loaded", "name", story.Name, "locations", len(story.Locations))

	mux := http.NewServeMux()

	var store storage.Storage
	var publisher events.Publisher = events.Discard{}
	switch cfg.StoreBackend {
	case config.StoreRedis:
		redisStore, err := redisstorage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.Error("Invalid Redis configuration", "error", err)
			os.Exit(1)
		}

		storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := redisStore.WaitForConnection(storageCtx); err != nil {
			storageCancel()
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		storageCancel()

		store = redisStore
		publisher = events.NewBroadcaster(redisStore.Client(), log)
		mux.Handle("/v1/events/adventures/", handlers.NewEventsHandler(redisStore.Client(), log))
	case config.StoreMemory:
		store = storage.NewMemoryStorage(cfg.SessionTTL)
		log.Warn("Using in-memory session store; sessions are lost on restart")
	}
	log.Info("Storage connection established successfully")

	sessions := session.NewManager(store, story, publisher, log, cfg.StartLocation)

	mux.Handle("/health", handlers.NewHealthHandler(store, story.Name, log))

	adventureHandler := handlers.NewAdventureHandler(sessions, log)
	mux.Handle("/v1/adventures", adventureHandler)
	mux.Handle("/v1/adventures/", adventureHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE endpoint streams indefinitely
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
