package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"taxlot/internal/api"
	"taxlot/internal/cointracking"
	"taxlot/internal/config"
	"taxlot/internal/database"
	"taxlot/internal/repository"
	"taxlot/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	tradeRepo := repository.NewTradeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	syncRepo := repository.NewSyncRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	tradeService := service.NewTradeService(tradeRepo)
	reportService := service.NewReportService(tradeRepo, reportRepo)
	syncService := service.NewSyncService(
		syncRepo,
		tradeRepo,
		cointracking.NewAPIClient(cointracking.DefaultBaseURL),
		cfg.Secrets.Key,
	)

	// Create router
	router := api.NewRouter(systemService, tradeService, reportService, syncService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Scheduled sync against the CoinTracking API
	if cfg.Sync.Enabled {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.Sync.Schedule, func() {
			syncService.RunScheduled(ctx)
		}); err != nil {
			log.Fatalf("Invalid sync schedule %q: %v", cfg.Sync.Schedule, err)
		}

		log.Printf("Scheduled sync enabled: %s", cfg.Sync.Schedule)
		scheduler.Start()
		defer scheduler.Stop()
	}

	g.Go(func() error {
		<-ctx.Done()

		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	log.Println("Server exited")
}
