package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/document-processing-service/internal/config"
	"github.com/BerylCAtieno/document-processing-service/internal/db"
	"github.com/BerylCAtieno/document-processing-service/internal/repository"
	"github.com/BerylCAtieno/document-processing-service/internal/router"
	"github.com/BerylCAtieno/document-processing-service/internal/services"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Extraction audit log is optional
	var docRepo repository.Repository
	if cfg.DatabasePath != "" {
		if err := db.RunMigrations(cfg.DatabasePath); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}

		database, err := db.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open database", "error", err)
		}
		defer database.Close()

		docRepo = repository.NewRepository(database)
		logger.Info("Extraction log enabled", "path", cfg.DatabasePath)
	}

	docService, err := services.NewService(docRepo, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document service", "error", err)
	}

	// Setup HTTP router
	handler := router.NewRouter(docService, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "addr", cfg.Addr(), "backend_dir", cfg.BackendDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server exited")
}
