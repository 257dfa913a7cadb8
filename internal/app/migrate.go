package app

import (
	"context"
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/finpulse/db"
	"github.com/guttosm/finpulse/internal/logger"
)

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.L().Info().Str("component", "migrate").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.L().Fatal().Str("component", "migrate").Msgf(format, v...)
}

// Migrate applies every pending embedded migration to conn.
//
// Behavior:
//   - Uses the SQL files compiled into the binary (db.Migrations).
//   - Is idempotent: already applied versions are skipped by goose.
func Migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(db.Migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.L().Info().Int64("version", version).Msg("database migrated")
	return nil
}
