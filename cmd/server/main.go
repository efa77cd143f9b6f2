package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"atelier/internal/config"
	"atelier/internal/db"
	"atelier/internal/email"
	"atelier/internal/handlers"
	"atelier/internal/jobs"
	"atelier/internal/metrics"
	"atelier/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Register prometheus collector and async lookup recorder
	metrics.Init(database)

	// Email notifications
	notifier := email.NewNotifier(cfg, database)
	handlers.SetNotifier(notifier)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Background preview asset checker
	if cfg.EnableAssetChecks {
		checker := jobs.NewAssetChecker(database, cfg.AssetCheckEvery, cfg.AssetCheckMaxAge)
		go checker.Start(ctx)
	} else {
		log.Println("Asset checks disabled")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
