package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anandk/placement/api"
	"github.com/anandk/placement/db"
	"github.com/anandk/placement/internal/cache"
	"github.com/anandk/placement/internal/config"
	dbpkg "github.com/anandk/placement/internal/db"
	"github.com/anandk/placement/internal/notify"
	"github.com/anandk/placement/internal/profile"
	"github.com/anandk/placement/internal/reports"
	"github.com/anandk/placement/internal/repository/sqlite"
	"github.com/anandk/placement/internal/session"
	"github.com/anandk/placement/internal/workflow"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	log.Printf("Starting placement server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply pending migrations
	conn, err := dbpkg.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := dbpkg.Migrate(ctx, conn, db.Migrations, db.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	store := sqlite.New(conn, logger)

	validator, err := profile.NewValidator(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load profile schemas: %v", err)
	}

	sessionKey := cfg.SessionKey
	if sessionKey == "" {
		sessionKey = cfg.JWTSecret
	}
	sessions := session.NewManager(cfg.SessionFile, sessionKey, cfg.SessionTimeout)

	dispatcher := notify.NewDispatcher(store, logger, cfg.NotifyWorkers, 0)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	engine := workflow.New(store, store, store, store, dispatcher, logger)
	generator := reports.NewGenerator(cfg.ReportsDir, store, store, store, store, logger)
	companies := cache.NewCompanies(store, cfg.CacheTTL)

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		Store:     store,
		Engine:    engine,
		Sessions:  sessions,
		Validator: validator,
		Reports:   generator,
		Companies: companies,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Daily deadline reminders, first run at startup
	reminderCtx, stopReminders := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			if err := engine.SendDeadlineReminders(reminderCtx); err != nil {
				logger.Error("deadline reminders failed", "error", err)
			}
			select {
			case <-reminderCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopReminders()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
