package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/finpulse/internal/apperrors"
	"github.com/guttosm/finpulse/internal/domain/models"
)

// Paginator resolves the window to fetch once the total row count is known.
type Paginator func(count int) (limit, offset int)

// FinancialDataReader is the read side used by the query endpoints.
type FinancialDataReader interface {
	ListFinancialData(ctx context.Context, filter models.RecordFilter, paginate Paginator) ([]models.FinancialRecord, int, error)
	AggregateFinancialData(ctx context.Context, filter models.RecordFilter) (models.Totals, error)
}

// FinancialDataWriter is the write side used by ingestion.
type FinancialDataWriter interface {
	UpsertFinancialData(ctx context.Context, records []models.FinancialRecord) (int, error)
	LastSync(ctx context.Context, symbol string) (time.Time, bool, error)
	UpsertSyncLog(ctx context.Context, symbol string, rowCount int) error
}

// FinancialDataRepository defines contract for DB operations.
type FinancialDataRepository interface {
	FinancialDataReader
	FinancialDataWriter
}

type financialDataRepository struct {
	db *sql.DB
}

func NewFinancialDataRepository(db *sql.DB) FinancialDataRepository {
	return &financialDataRepository{db: db}
}

// whereClause builds the WHERE part for a filter. Placeholders are numbered
// from 1 in the order symbol, start date, end date; absent constraints are skipped.
func whereClause(f models.RecordFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if f.Symbol != "" {
		args = append(args, f.Symbol)
		conditions = append(conditions, fmt.Sprintf("symbol = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListFinancialData counts the rows matching filter, lets paginate pick the
// window and fetches it ordered by date then symbol.
//
// Both statements run in one read-only repeatable-read transaction so the
// page is cut from the same snapshot the count was taken on.
//
// Returns the page rows and the total count before pagination.
func (r *financialDataRepository) ListFinancialData(ctx context.Context, filter models.RecordFilter, paginate Paginator) ([]models.FinancialRecord, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, apperrors.Database("list financial data", err)
	}
	defer func() { _ = tx.Rollback() }()

	where, args := whereClause(filter)

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM financial_data"+where, args...).Scan(&count); err != nil {
		return nil, 0, apperrors.Database("count financial data", err)
	}

	limit, offset := paginate(count)
	if count == 0 || offset >= count {
		return []models.FinancialRecord{}, count, apperrors.Database("list financial data", tx.Commit())
	}

	query := fmt.Sprintf(`
		SELECT symbol, date, open_price, close_price, volume
		FROM financial_data%s
		ORDER BY date ASC, symbol ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Database("list financial data", err)
	}
	defer rows.Close()

	records := make([]models.FinancialRecord, 0, limit)
	for rows.Next() {
		var rec models.FinancialRecord
		if err := rows.Scan(&rec.Symbol, &rec.Date, &rec.OpenPrice, &rec.ClosePrice, &rec.Volume); err != nil {
			return nil, 0, apperrors.Database("scan financial data", err)
		}
		rec.Date = models.TruncateToDate(rec.Date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Database("list financial data", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, apperrors.Database("list financial data", err)
	}
	return records, count, nil
}

// AggregateFinancialData returns the row count and column sums for filter.
// An empty match yields zero Totals and no error; deciding whether that is
// a failure is left to the caller.
func (r *financialDataRepository) AggregateFinancialData(ctx context.Context, filter models.RecordFilter) (models.Totals, error) {
	where, args := whereClause(filter)
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(open_price), 0),
		       COALESCE(SUM(close_price), 0),
		       COALESCE(SUM(volume), 0)
		FROM financial_data` + where

	var t models.Totals
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.Count, &t.SumOpen, &t.SumClose, &t.SumVolume)
	if err != nil {
		return models.Totals{}, apperrors.Database("aggregate financial data", err)
	}
	return t, nil
}

// UpsertFinancialData writes records with insert-or-replace semantics on
// (symbol, date) in a single transaction.
//
// Behavior:
//   - Rows are bulk loaded with COPY into a transaction-scoped staging table.
//   - A single INSERT ... SELECT merges the stage into financial_data; when a
//     batch repeats a (symbol, date) the last occurrence wins.
//   - Returns the number of rows inserted or updated.
func (r *financialDataRepository) UpsertFinancialData(ctx context.Context, records []models.FinancialRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Database("upsert financial data", err)
	}

	fail := func(err error) (int, error) {
		_ = tx.Rollback()
		return 0, apperrors.Database("upsert financial data", err)
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		return fail(err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE TEMP TABLE financial_data_stage (
			LIKE financial_data INCLUDING DEFAULTS,
			seq BIGINT NOT NULL
		) ON COMMIT DROP`); err != nil {
		return fail(err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"financial_data_stage",
		"symbol",
		"date",
		"open_price",
		"close_price",
		"volume",
		"seq",
	))
	if err != nil {
		return fail(err)
	}

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.Symbol,
			models.TruncateToDate(rec.Date),
			rec.OpenPrice,
			rec.ClosePrice,
			rec.Volume,
			i,
		); err != nil {
			_ = stmt.Close()
			return fail(err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fail(err)
	}
	if err := stmt.Close(); err != nil {
		return fail(err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO financial_data (symbol, date, open_price, close_price, volume)
		SELECT DISTINCT ON (symbol, date) symbol, date, open_price, close_price, volume
		FROM financial_data_stage
		ORDER BY symbol, date, seq DESC
		ON CONFLICT (symbol, date)
		DO UPDATE SET open_price = EXCLUDED.open_price,
		              close_price = EXCLUDED.close_price,
		              volume = EXCLUDED.volume,
		              updated_at = NOW()`)
	if err != nil {
		return fail(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fail(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.Database("upsert financial data", err)
	}
	return int(affected), nil
}

// LastSync returns when symbol was last synced. ok is false when it never was.
func (r *financialDataRepository) LastSync(ctx context.Context, symbol string) (time.Time, bool, error) {
	var syncedAt time.Time
	err := r.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_log WHERE symbol = $1`, symbol).Scan(&syncedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, apperrors.Database("read sync log", err)
	}
	return syncedAt, true, nil
}

// UpsertSyncLog records (or updates) a sync entry for a symbol.
func (r *financialDataRepository) UpsertSyncLog(ctx context.Context, symbol string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_log (symbol, row_count)
		VALUES ($1, $2)
		ON CONFLICT (symbol)
		DO UPDATE SET row_count = EXCLUDED.row_count,
		              synced_at = NOW()`, symbol, rowCount)
	return apperrors.Database("write sync log", err)
}
