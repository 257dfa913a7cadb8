package app

import (
	"github.com/guttosm/finpulse/config"
	"github.com/guttosm/finpulse/internal/ingestion"
	"github.com/guttosm/finpulse/internal/service"
	"github.com/guttosm/finpulse/internal/storage"
)

// Services groups the read use cases served over HTTP.
type Services struct {
	FinancialData service.FinancialDataService
	Statistics    service.StatisticsService
}

// NewServices builds the read use cases on top of repo.
func NewServices(repo storage.FinancialDataReader) Services {
	return Services{
		FinancialData: service.NewFinancialDataService(repo),
		Statistics:    service.NewStatisticsService(repo),
	}
}

// NewSyncer builds the ingestion pipeline from configuration.
//
// Responsibilities:
//   - Alpha Vantage client with the configured function, output size, timeout and retries.
//   - Trading calendar for cfg.Sync.MarketMIC.
//   - Syncer writing through repo.
func NewSyncer(cfg config.Config, repo storage.FinancialDataWriter) *ingestion.Syncer {
	opts := []ingestion.ClientOption{
		ingestion.WithFunction(cfg.Provider.Function),
		ingestion.WithOutputSize(cfg.Provider.OutputSize),
	}
	if cfg.Provider.Timeout > 0 {
		opts = append(opts, ingestion.WithTimeout(cfg.Provider.Timeout))
	}
	if cfg.Provider.MaxRetries >= 0 {
		opts = append(opts, ingestion.WithRetries(cfg.Provider.MaxRetries, ingestion.DefaultRetryBackoff))
	}

	client := ingestion.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, opts...)
	cal := ingestion.NewTradingCalendar(cfg.Sync.MarketMIC)
	return ingestion.NewSyncer(client, repo, cal, cfg.Sync.LookbackDays, cfg.Sync.Parallel)
}
