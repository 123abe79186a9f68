package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taxlot/internal/api/handlers"
	custommiddleware "taxlot/internal/api/middleware"
	"taxlot/internal/config"
	"taxlot/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	tradeService *service.TradeService,
	reportService *service.ReportService,
	syncService *service.SyncService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/trade", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(tradeService)
			r.Get("/", tradeHandler.AllTrades)
			r.Post("/import", tradeHandler.ImportTrades)
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(reportService)
			r.Get("/", reportHandler.AllReports)
			r.Post("/", reportHandler.GenerateReport)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", reportHandler.GetReport)
				r.Get("/export", reportHandler.ExportReport)
			})
		})

		r.Route("/sync", func(r chi.Router) {
			syncHandler := handlers.NewSyncHandler(syncService)
			r.Get("/config", syncHandler.GetConfig)
			r.Put("/config", syncHandler.UpdateConfig)
			r.Post("/run", syncHandler.Run)
		})
	})

	return r
}
