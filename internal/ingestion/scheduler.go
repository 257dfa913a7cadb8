package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guttosm/finpulse/internal/logger"
)

// DefaultJobTimeout bounds one scheduled sync.
const DefaultJobTimeout = 10 * time.Minute

// Scheduler runs the Syncer on a cron schedule, on trading days only.
type Scheduler struct {
	cron     *cron.Cron
	syncer   *Syncer
	symbols  []string
	timeout  time.Duration
	calendar *TradingCalendar
	now      func() time.Time
}

// NewScheduler registers the sync job for schedule (standard 5-field cron syntax)
// evaluated in timezone (empty means the calendar's market time zone).
func NewScheduler(syncer *Syncer, schedule, timezone string, symbols []string) (*Scheduler, error) {
	loc := syncer.calendar.Location()
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		loc = l
	}
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{l: logger.L().With().Str("component", "scheduler").Logger()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		syncer:   syncer,
		symbols:  symbols,
		timeout:  DefaultJobTimeout,
		calendar: syncer.calendar,
		now:      time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.runJob); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		logger.L().Info().Time("next", e.Next).Msg("sync scheduler started")
	}
}

// Stop prevents new runs and waits for a running job until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runJob() {
	now := s.now()
	if !s.calendar.IsTradingDay(now) {
		logger.L().Info().Str("date", now.Format("2006-01-02")).Msg("market closed, scheduled sync skipped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results, err := s.syncer.Run(ctx, s.symbols, false)
	if err != nil {
		logger.L().Error().Err(err).Msg("scheduled sync failed")
		return
	}
	synced := 0
	for _, r := range results {
		if !r.Skipped {
			synced++
		}
	}
	logger.L().Info().Int("symbols", len(results)).Int("synced", synced).Msg("scheduled sync done")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
