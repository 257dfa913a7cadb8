package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/finpulse/internal/domain/models"
	"github.com/guttosm/finpulse/internal/logger"
	"github.com/guttosm/finpulse/internal/query"
	"github.com/guttosm/finpulse/internal/storage"
)

const maxParallel = 8

// Syncer pulls daily series from the provider and stores them.
type Syncer struct {
	fetcher  Fetcher
	repo     storage.FinancialDataWriter
	calendar *TradingCalendar
	lookback int
	parallel int
	now      func() time.Time
}

// NewSyncer builds a Syncer.
//
// Parameters:
//   - lookback: trading days kept from each fetch, clamped to >= 1.
//   - parallel: symbols processed concurrently, clamped to 1..8.
func NewSyncer(fetcher Fetcher, repo storage.FinancialDataWriter, cal *TradingCalendar, lookback, parallel int) *Syncer {
	if lookback < 1 {
		lookback = 1
	}
	if parallel < 1 {
		parallel = 1
	}
	if parallel > maxParallel {
		parallel = maxParallel
	}
	if cal == nil {
		cal = NewTradingCalendar("")
	}
	return &Syncer{
		fetcher:  fetcher,
		repo:     repo,
		calendar: cal,
		lookback: lookback,
		parallel: parallel,
		now:      time.Now,
	}
}

// Run syncs every symbol and returns one result per symbol, in input order.
//
// Behavior:
//   - Symbols are trimmed, upper-cased and de-duplicated.
//   - A symbol already synced on the current market date is skipped unless force.
//   - Records older than the lookback window are dropped before the upsert.
//   - Existing (symbol, date) rows are replaced.
//   - The first failure cancels the remaining symbols and is returned.
func (s *Syncer) Run(ctx context.Context, symbols []string, force bool) ([]models.SyncResult, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, errors.New("no symbols to sync")
	}

	now := s.now()
	window := s.calendar.LastNTradingDays(s.lookback, now)
	since := window[len(window)-1]

	logger.L().Info().
		Strs("symbols", symbols).
		Str("since", since.Format(models.DateLayout)).
		Int("parallel", s.parallel).
		Bool("force", force).
		Msg("sync start")

	results := make([]models.SyncResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)

	for i, symbol := range symbols {
		idx, sym := i, symbol
		g.Go(func() error {
			res, err := s.syncSymbol(gctx, sym, since, now, force)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", sym, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Syncer) syncSymbol(ctx context.Context, symbol string, since, now time.Time, force bool) (models.SyncResult, error) {
	start := time.Now()
	log := logger.L().With().Str("symbol", symbol).Logger()
	res := models.SyncResult{Symbol: symbol}

	last, ok, err := s.repo.LastSync(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Msg("check sync log failed")
		return res, fmt.Errorf("check sync log: %w", err)
	}
	if ok && !force && s.sameMarketDate(last, now) {
		log.Info().Bool("skipped", true).Time("synced_at", last).Msg("already synced today")
		res.Skipped = true
		return res, nil
	}

	series, err := s.fetcher.FetchDaily(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		return res, fmt.Errorf("fetch: %w", err)
	}

	records, err := ToRecords(symbol, series, since)
	if err != nil {
		log.Error().Err(err).Msg("transform failed")
		return res, fmt.Errorf("transform: %w", err)
	}

	rows, err := s.repo.UpsertFinancialData(ctx, records)
	if err != nil {
		log.Error().Err(err).Msg("upsert failed")
		return res, fmt.Errorf("upsert: %w", err)
	}
	if err := s.repo.UpsertSyncLog(ctx, symbol, rows); err != nil {
		log.Error().Err(err).Msg("update sync log failed")
		return res, fmt.Errorf("upsert sync log: %w", err)
	}

	ev := log.Info().Int("rows", rows).Dur("elapsed", time.Since(start)).Bool("force", force)
	if avg, err := query.Average(query.TotalsOf(records)); err == nil {
		ev = ev.Str("avg_open", avg.OpenPrice.String()).
			Str("avg_close", avg.ClosePrice.String()).
			Int64("avg_volume", avg.Volume)
	}
	ev.Msg("symbol synced")

	res.Rows = rows
	return res, nil
}

func (s *Syncer) sameMarketDate(a, b time.Time) bool {
	loc := s.calendar.Location()
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func normalizeSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
