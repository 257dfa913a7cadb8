package main

//
//  @title           finpulse API
//  @version         1.0
//  @description     Daily stock price storage, listing and statistics service.
//  @termsOfService  https://github.com/guttosm/finpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/finpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        financial_data
//  @tag.description Paginated daily open/close/volume records
//
//  @tag.name        statistics
//  @tag.description Average daily prices and volume over a date range
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/finpulse/config"
	_ "github.com/guttosm/finpulse/docs" // swagger docs
	"github.com/guttosm/finpulse/internal/app"
	"github.com/guttosm/finpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// The write timeout leaves room for the per-request deadline applied by the
// router, so a request that hits its deadline still gets its error body out.
func startServer(router http.Handler, port string, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Dur("request_timeout", requestTimeout).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown blocks until SIGINT or SIGTERM, drains the HTTP server
// and then runs cleanup (scheduler stop, DB close).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the finpulse application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API (and the sync scheduler when SYNC_ENABLED=true).
//   - sync:    Fetches daily prices from Alpha Vantage once and stores them.
//   - migrate: Applies the embedded database migrations.
//
// Flags:
//   - --mode:    Execution mode ("api", "sync" or "migrate"). Default: "api".
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --symbols: Comma separated tickers for sync mode. Defaults to SYNC_SYMBOLS.
//   - --force:   Sync symbols even if they were already synced today.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api, sync or migrate")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	symbols := flag.String("symbols", "", "Comma separated symbols to sync (default: SYNC_SYMBOLS)")
	force := flag.Bool("force", false, "Sync symbols even if already synced today")
	flag.Parse()

	switch *mode {
	case "sync":
		logger.L().Info().Msg("running sync")

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.RunSync(sigCtx, config.SplitSymbols(*symbols), *force); err != nil {
			logger.L().Fatal().Err(err).Msg("sync failed")
		}
		logger.L().Info().Msg("sync completed successfully")

	case "migrate":
		logger.L().Info().Msg("running migrations")
		if err := app.RunMigrations(ctx); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, config.AppConfig.Server.RequestTimeout)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
