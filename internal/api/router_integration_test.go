//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/finpulse/config"
	"github.com/guttosm/finpulse/internal/app"
)

func startPG(t *testing.T) (dsn string, host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "finpulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=finpulse sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", h, mp.Port(), "finpulse")
	return dsn, h, mp, func() { _ = c.Terminate(context.Background()) }
}

// bootApp points the global config at the container and lets the app run
// the migrations on start.
func bootApp(t *testing.T, host string, port nat.Port) (http.Handler, func()) {
	t.Helper()
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })

	config.AppConfig = config.Config{
		Postgres: config.PostgresConfig{
			Host:           host,
			Port:           port.Int(),
			User:           "postgres",
			Password:       "postgres",
			DBName:         "finpulse",
			SSLMode:        "disable",
			MigrateOnStart: true,
		},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	return router, cleanup
}

func seed(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	rows := []struct {
		symbol, date string
		open, close  string
		volume       int64
	}{
		{"IBM", "2023-05-04", "137.90", "138.07", 4012390},
		{"IBM", "2023-05-05", "138.50", "136.34", 3780219},
		{"IBM", "2023-05-08", "136.21", "135.60", 3300000},
		{"AAPL", "2023-05-05", "170.98", "173.57", 113316400},
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO financial_data (symbol, date, open_price, close_price, volume) VALUES ($1, $2, $3, $4, $5)`,
			r.symbol, r.date, r.open, r.close, r.volume); err != nil {
			t.Fatalf("seed %s %s: %v", r.symbol, r.date, err)
		}
	}
}

func get(t *testing.T, h http.Handler, path string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("json %s: %v body=%s", path, err, w.Body.String())
	}
	return w.Code
}

func TestAPI_E2E_FinancialDataAndStatistics(t *testing.T) {
	dsn, host, port, term := startPG(t)
	defer term()

	router, cleanup := bootApp(t, host, port)
	defer cleanup()
	seed(t, dsn)

	t.Run("listing paginates in date order", func(t *testing.T) {
		var body struct {
			Data []struct {
				Symbol    string  `json:"symbol"`
				Date      string  `json:"date"`
				OpenPrice float64 `json:"open_price"`
			} `json:"data"`
			Pagination struct {
				Count, Limit, Page, Pages int
			} `json:"pagination"`
			Info struct {
				Warning []string `json:"warning"`
				Error   []string `json:"error"`
			} `json:"info"`
		}
		code := get(t, router, "/api/financial_data?symbol=IBM&start_date=2023-05-01&end_date=2023-05-31&limit=2&page=2", &body)
		if code != http.StatusOK {
			t.Fatalf("status=%d", code)
		}
		if body.Pagination.Count != 3 || body.Pagination.Pages != 2 || body.Pagination.Page != 2 {
			t.Fatalf("unexpected pagination %+v", body.Pagination)
		}
		if len(body.Data) != 1 || body.Data[0].Date != "2023-05-08" || body.Data[0].OpenPrice != 136.21 {
			t.Fatalf("unexpected data %+v", body.Data)
		}
		if len(body.Info.Error) != 0 || len(body.Info.Warning) != 0 {
			t.Fatalf("unexpected info %+v", body.Info)
		}
	})

	t.Run("statistics averages the range", func(t *testing.T) {
		var body struct {
			Data struct {
				Symbol                 string  `json:"symbol"`
				AverageDailyOpenPrice  float64 `json:"average_daily_open_price"`
				AverageDailyClosePrice float64 `json:"average_daily_close_price"`
				AverageDailyVolume     int64   `json:"average_daily_volume"`
			} `json:"data"`
			Info struct {
				Warning []string `json:"warning"`
				Error   string   `json:"error"`
			} `json:"info"`
		}
		code := get(t, router, "/api/statistics?symbol=IBM&start_date=2023-05-31&end_date=2023-05-01", &body)
		if code != http.StatusOK {
			t.Fatalf("status=%d", code)
		}
		if body.Data.AverageDailyOpenPrice != 137.54 || body.Data.AverageDailyClosePrice != 136.67 || body.Data.AverageDailyVolume != 3697536 {
			t.Fatalf("unexpected stats %+v", body.Data)
		}
		if len(body.Info.Warning) != 1 || body.Info.Warning[0] != "SWAP_START_END_DATE" || body.Info.Error != "" {
			t.Fatalf("unexpected info %+v", body.Info)
		}
	})

	t.Run("statistics without rows is not found", func(t *testing.T) {
		var body struct {
			Info struct {
				Error string `json:"error"`
			} `json:"info"`
		}
		code := get(t, router, "/api/statistics?symbol=MSFT&start_date=2023-05-01&end_date=2023-05-31", &body)
		if code != http.StatusNotFound || body.Info.Error != "NO_DATA_FOUND" {
			t.Fatalf("status=%d info=%+v", code, body.Info)
		}
	})
}
