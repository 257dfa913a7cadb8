package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/finpulse/config"
	"github.com/guttosm/finpulse/internal/api"
	"github.com/guttosm/finpulse/internal/ingestion"
	"github.com/guttosm/finpulse/internal/logger"
	"github.com/guttosm/finpulse/internal/query"
	"github.com/guttosm/finpulse/internal/storage"
)

const shutdownGrace = 30 * time.Second

// migrator is an indirection used by InitializeApp; overridden in tests.
var migrator = Migrate

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Applies embedded migrations when MIGRATE_ON_START is set.
//   - Initializes the repository and the read services.
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health and readiness probes.
//   - Starts the ingestion scheduler when SYNC_ENABLED is set.
//   - Provides a cleanup function that stops the scheduler and closes the DB.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if cfg.Postgres.MigrateOnStart {
		if err := migrator(context.Background(), db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	repo := storage.NewFinancialDataRepository(db)
	svc := NewServices(repo)

	handler := api.NewHandler(svc.FinancialData, svc.Statistics, query.Options{AllowedSymbols: cfg.Query.AllowedSymbols})
	router := api.NewRouter(handler, cfg.Server.RequestTimeout)

	healthHandler := api.NewHealthHandler(db.PingContext)
	healthHandler.Register(router)

	var scheduler *ingestion.Scheduler
	if cfg.Sync.Enabled {
		scheduler, err = ingestion.NewScheduler(NewSyncer(cfg, repo), cfg.Sync.Schedule, cfg.Sync.Timezone, cfg.Sync.Symbols)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to create sync scheduler: %w", err)
		}
		scheduler.Start()
	}

	cleanup := func() {
		if scheduler != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			if err := scheduler.Stop(ctx); err != nil {
				logger.L().Warn().Err(err).Msg("sync scheduler did not stop in time")
			}
			cancel()
		}
		_ = db.Close()
	}

	return router, cleanup, nil
}

// RunSync performs one ingestion pass for symbols (config.AppConfig.Sync.Symbols
// when empty) and closes the database afterwards.
func RunSync(ctx context.Context, symbols []string, force bool) error {
	cfg := config.AppConfig

	db, err := postgresOpener(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	if len(symbols) == 0 {
		symbols = cfg.Sync.Symbols
	}

	results, err := NewSyncer(cfg, storage.NewFinancialDataRepository(db)).Run(ctx, symbols, force)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.L().Info().Str("symbol", r.Symbol).Int("rows", r.Rows).Bool("skipped", r.Skipped).Msg("sync result")
	}
	return nil
}

// RunMigrations opens the database and applies every pending migration.
func RunMigrations(ctx context.Context) error {
	db, err := postgresOpener(config.AppConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	return migrator(ctx, db)
}
