package config

import (
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, Postgres connection details, query validation and ingestion.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	REQUEST_TIMEOUT=10s
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=finpulse
//	POSTGRES_SSLMODE=disable
//	QUERY_ALLOWED_SYMBOLS=IBM,AAPL
//	ALPHAVANTAGE_API_KEY=demo
//	SYNC_SYMBOLS=IBM,AAPL
//	SYNC_SCHEDULE="30 18 * * MON-FRI"
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Query    QueryConfig    // Read endpoint validation
	Provider ProviderConfig // Alpha Vantage client
	Sync     SyncConfig     // Ingestion job
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Deadline applied to every request context
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
//   - MigrateOnStart: apply embedded goose migrations when the API boots.
type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	URL            string
	MigrateOnStart bool
}

// DSN builds the connection URL from the individual fields. Credentials and
// the database name are escaped, so passwords may contain '@', '/' or ':'.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.DBName,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// QueryConfig tunes the read endpoints.
type QueryConfig struct {
	// AllowedSymbols restricts the symbol parameter; empty accepts any well-formed ticker.
	AllowedSymbols []string
}

// ProviderConfig configures the Alpha Vantage client.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Function   string // TIME_SERIES_DAILY or TIME_SERIES_DAILY_ADJUSTED
	OutputSize string // compact (last 100 points) or full
	Timeout    time.Duration
	MaxRetries int
}

// SyncConfig configures the ingestion job.
type SyncConfig struct {
	Symbols      []string
	LookbackDays int    // trading days kept from each fetch
	Parallel     int    // symbols fetched concurrently
	Schedule     string // cron expression, evaluated in Timezone
	Timezone     string
	Enabled      bool // run the scheduler inside the API process
	MarketMIC    string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Splits comma separated symbol lists and upper-cases them.
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "finpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("MIGRATE_ON_START", false)

	viper.SetDefault("QUERY_ALLOWED_SYMBOLS", "")

	viper.SetDefault("ALPHAVANTAGE_API_KEY", "")
	viper.SetDefault("ALPHAVANTAGE_URL", "https://www.alphavantage.co/query")
	viper.SetDefault("ALPHAVANTAGE_FUNCTION", "TIME_SERIES_DAILY")
	viper.SetDefault("ALPHAVANTAGE_OUTPUT_SIZE", "compact")
	viper.SetDefault("ALPHAVANTAGE_TIMEOUT", "15s")
	viper.SetDefault("ALPHAVANTAGE_MAX_RETRIES", 3)

	viper.SetDefault("SYNC_SYMBOLS", "IBM,AAPL")
	viper.SetDefault("SYNC_LOOKBACK_DAYS", 10)
	viper.SetDefault("SYNC_PARALLEL", 2)
	viper.SetDefault("SYNC_SCHEDULE", "30 18 * * MON-FRI")
	viper.SetDefault("SYNC_TIMEZONE", "America/New_York")
	viper.SetDefault("SYNC_ENABLED", false)
	viper.SetDefault("MARKET_MIC", "xnys")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			Host:           viper.GetString("POSTGRES_HOST"),
			Port:           viper.GetInt("POSTGRES_PORT"),
			User:           viper.GetString("POSTGRES_USER"),
			Password:       viper.GetString("POSTGRES_PASSWORD"),
			DBName:         viper.GetString("POSTGRES_DB"),
			SSLMode:        viper.GetString("POSTGRES_SSLMODE"),
			MigrateOnStart: viper.GetBool("MIGRATE_ON_START"),
		},
		Query: QueryConfig{
			AllowedSymbols: SplitSymbols(viper.GetString("QUERY_ALLOWED_SYMBOLS")),
		},
		Provider: ProviderConfig{
			APIKey:     viper.GetString("ALPHAVANTAGE_API_KEY"),
			BaseURL:    viper.GetString("ALPHAVANTAGE_URL"),
			Function:   strings.ToUpper(viper.GetString("ALPHAVANTAGE_FUNCTION")),
			OutputSize: strings.ToLower(viper.GetString("ALPHAVANTAGE_OUTPUT_SIZE")),
			Timeout:    viper.GetDuration("ALPHAVANTAGE_TIMEOUT"),
			MaxRetries: viper.GetInt("ALPHAVANTAGE_MAX_RETRIES"),
		},
		Sync: SyncConfig{
			Symbols:      SplitSymbols(viper.GetString("SYNC_SYMBOLS")),
			LookbackDays: viper.GetInt("SYNC_LOOKBACK_DAYS"),
			Parallel:     viper.GetInt("SYNC_PARALLEL"),
			Schedule:     viper.GetString("SYNC_SCHEDULE"),
			Timezone:     viper.GetString("SYNC_TIMEZONE"),
			Enabled:      viper.GetBool("SYNC_ENABLED"),
			MarketMIC:    strings.ToLower(viper.GetString("MARKET_MIC")),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	// Validate critical fields
	validateConfig()
}

// SplitSymbols parses a comma separated ticker list, trimming blanks and
// upper-casing each entry. Empty entries and duplicates are dropped.
func SplitSymbols(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// missingFields lists the variables whose values are absent or unusable.
func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if cfg.Sync.Enabled {
		if cfg.Sync.Schedule == "" {
			missing = append(missing, "SYNC_SCHEDULE")
		}
		if len(cfg.Sync.Symbols) == 0 {
			missing = append(missing, "SYNC_SYMBOLS")
		}
		if cfg.Provider.APIKey == "" {
			missing = append(missing, "ALPHAVANTAGE_API_KEY")
		}
	}
	if cfg.Sync.LookbackDays < 1 {
		missing = append(missing, "SYNC_LOOKBACK_DAYS")
	}
	if cfg.Sync.Parallel < 1 {
		missing = append(missing, "SYNC_PARALLEL")
	}

	return missing
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Scheduler settings (and the provider API key) are only required when SYNC_ENABLED is set.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}
