package storage

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/guttosm/finpulse/internal/apperrors"
	"github.com/guttosm/finpulse/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*financialDataRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &financialDataRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestWhereClause_TableDriven(t *testing.T) {
	start, end := date(2023, 5, 4), date(2023, 5, 14)

	cases := []struct {
		name     string
		filter   models.RecordFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{name: "no constraints", filter: models.RecordFilter{}, wantSQL: ""},
		{name: "symbol only", filter: models.RecordFilter{Symbol: "IBM"}, wantSQL: " WHERE symbol = $1", wantArgs: []interface{}{"IBM"}},
		{name: "start only", filter: models.RecordFilter{StartDate: &start}, wantSQL: " WHERE date >= $1", wantArgs: []interface{}{start}},
		{name: "range without symbol", filter: models.RecordFilter{StartDate: &start, EndDate: &end}, wantSQL: " WHERE date >= $1 AND date <= $2", wantArgs: []interface{}{start, end}},
		{
			name:     "all three",
			filter:   models.RecordFilter{Symbol: "AAPL", StartDate: &start, EndDate: &end},
			wantSQL:  " WHERE symbol = $1 AND date >= $2 AND date <= $3",
			wantArgs: []interface{}{"AAPL", start, end},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := whereClause(tc.filter)
			if sql != tc.wantSQL {
				t.Fatalf("sql=%q want %q", sql, tc.wantSQL)
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Fatalf("args=%v want %v", args, tc.wantArgs)
			}
		})
	}
}

func TestListFinancialData_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM financial_data WHERE symbol = $1")).
		WithArgs("IBM").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT symbol, date, open_price, close_price, volume FROM financial_data WHERE symbol = $1 ORDER BY date ASC, symbol ASC LIMIT $2 OFFSET $3")).
		WithArgs("IBM", int64(3), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "date", "open_price", "close_price", "volume"}).
			AddRow("IBM", date(2023, 5, 7), "125.5000", "126.2500", int64(3000)).
			AddRow("IBM", date(2023, 5, 8), "126.0000", "127.0000", int64(4000)))
	mock.ExpectCommit()

	var gotCount int
	records, count, err := repo.ListFinancialData(context.Background(), models.RecordFilter{Symbol: "IBM"}, func(c int) (int, int) {
		gotCount = c
		return 3, 3
	})
	if err != nil {
		t.Fatalf("ListFinancialData: %v", err)
	}
	if count != 7 || gotCount != 7 {
		t.Fatalf("count=%d paginator saw %d, want 7", count, gotCount)
	}
	if len(records) != 2 || records[0].Symbol != "IBM" || !records[0].OpenPrice.Equal(decimal.RequireFromString("125.5")) {
		t.Fatalf("unexpected records %+v", records)
	}
	if !records[1].Date.Equal(date(2023, 5, 8)) || records[1].Volume != 4000 {
		t.Fatalf("unexpected second record %+v", records[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListFinancialData_EmptySkipsFetch(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM financial_data")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectCommit()

	records, count, err := repo.ListFinancialData(context.Background(), models.RecordFilter{}, func(int) (int, int) { return 5, 0 })
	if err != nil || count != 0 {
		t.Fatalf("want empty result, got count=%d err=%v", count, err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", records)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListFinancialData_Errors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectBegin().WillReturnError(dummyErr{})

		_, _, err := repo.ListFinancialData(context.Background(), models.RecordFilter{}, func(int) (int, int) { return 5, 0 })
		if !errors.Is(err, apperrors.ErrDatabase) {
			t.Fatalf("want ErrDatabase, got %v", err)
		}
	})

	t.Run("count", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnError(dummyErr{})
		mock.ExpectRollback()

		_, _, err := repo.ListFinancialData(context.Background(), models.RecordFilter{}, func(int) (int, int) { return 5, 0 })
		var dbErr *apperrors.DatabaseError
		if !errors.As(err, &dbErr) || dbErr.Op != "count financial data" {
			t.Fatalf("want DatabaseError for count, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("fetch", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date ASC")).WillReturnError(dummyErr{})
		mock.ExpectRollback()

		_, _, err := repo.ListFinancialData(context.Background(), models.RecordFilter{}, func(int) (int, int) { return 2, 0 })
		if !errors.Is(err, apperrors.ErrDatabase) {
			t.Fatalf("want ErrDatabase, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestAggregateFinancialData_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	start, end := date(2023, 5, 4), date(2023, 5, 14)
	mock.ExpectQuery(regexp.QuoteMeta("FROM financial_data WHERE symbol = $1 AND date >= $2 AND date <= $3")).
		WithArgs("IBM", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum_open", "sum_close", "sum_volume"}).
			AddRow(int64(3), "412.6100", "410.0100", "11092609"))

	totals, err := repo.AggregateFinancialData(context.Background(), models.RecordFilter{Symbol: "IBM", StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("AggregateFinancialData: %v", err)
	}
	if totals.Count != 3 || !totals.SumOpen.Equal(decimal.RequireFromString("412.61")) ||
		!totals.SumClose.Equal(decimal.RequireFromString("410.01")) || !totals.SumVolume.Equal(decimal.NewFromInt(11092609)) {
		t.Fatalf("unexpected totals %+v", totals)
	}

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(open_price), 0)")).WillReturnError(dummyErr{})
	if _, err := repo.AggregateFinancialData(context.Background(), models.RecordFilter{}); !errors.Is(err, apperrors.ErrDatabase) {
		t.Fatalf("want ErrDatabase, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncLog_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()
	ctx := context.Background()
	at := time.Date(2025, 9, 11, 21, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT synced_at FROM sync_log WHERE symbol = $1")).
		WithArgs("IBM").WillReturnRows(sqlmock.NewRows([]string{"synced_at"}).AddRow(at))
	got, ok, err := repo.LastSync(ctx, "IBM")
	if err != nil || !ok || !got.Equal(at) {
		t.Fatalf("LastSync: got=%v ok=%v err=%v", got, ok, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT synced_at FROM sync_log WHERE symbol = $1")).
		WithArgs("AAPL").WillReturnRows(sqlmock.NewRows([]string{"synced_at"}))
	_, ok, err = repo.LastSync(ctx, "AAPL")
	if err != nil || ok {
		t.Fatalf("LastSync never synced: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_log (symbol, row_count) VALUES ($1, $2) ON CONFLICT (symbol)")).
		WithArgs("IBM", int64(42)).WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.UpsertSyncLog(ctx, "IBM", 42); err != nil {
		t.Fatalf("UpsertSyncLog: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_log")).WillReturnError(dummyErr{})
	if err := repo.UpsertSyncLog(ctx, "IBM", 1); !errors.Is(err, apperrors.ErrDatabase) {
		t.Fatalf("want ErrDatabase, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewFinancialDataRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	r := NewFinancialDataRepository(db)
	if r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func sampleBatch() []models.FinancialRecord {
	return []models.FinancialRecord{
		{Symbol: "IBM", Date: date(2025, 9, 11), OpenPrice: decimal.RequireFromString("10.5"), ClosePrice: decimal.RequireFromString("11"), Volume: 100},
	}
}

func TestUpsertFinancialData_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE financial_data_stage")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn is driver specific; sqlmock only sees a prepared statement
	// executed once per row and once more to flush.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO financial_data (symbol, date, open_price, close_price, volume)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertFinancialData(context.Background(), sampleBatch())
	if err != nil {
		t.Fatalf("UpsertFinancialData: %v", err)
	}
	if n != 1 {
		t.Fatalf("affected=%d want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertFinancialData_EmptyBatchIsNoop(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	n, err := repo.UpsertFinancialData(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("want 0,nil got %d,%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db calls: %v", err)
	}
}

func TestUpsertFinancialData_ErrorOnBegin(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin().WillReturnError(dummyErr{})
	if _, err := repo.UpsertFinancialData(context.Background(), sampleBatch()); !errors.Is(err, apperrors.ErrDatabase) {
		t.Fatalf("expected database error on begin, got %v", err)
	}
}

func TestUpsertFinancialData_ErrorOnRowExec(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if _, err := repo.UpsertFinancialData(context.Background(), sampleBatch()); err == nil {
		t.Fatalf("expected error on row exec")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertFinancialData_ErrorOnMerge(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO financial_data")).WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if _, err := repo.UpsertFinancialData(context.Background(), sampleBatch()); !errors.Is(err, apperrors.ErrDatabase) {
		t.Fatalf("expected database error on merge, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
