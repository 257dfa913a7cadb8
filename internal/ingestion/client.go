package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/finpulse/internal/apperrors"
	"github.com/guttosm/finpulse/internal/logger"
)

const (
	DefaultBaseURL    = "https://www.alphavantage.co/query"
	DefaultFunction   = "TIME_SERIES_DAILY"
	DefaultOutputSize = "compact"

	// DefaultRetryBackoff is the first retry delay; it doubles on every attempt.
	DefaultRetryBackoff = time.Second

	timeSeriesKey = "Time Series (Daily)"
)

// DailySeries is the "Time Series (Daily)" object of a provider response:
// date (YYYY-MM-DD) -> field ("1. open", "4. close", ...) -> raw value.
type DailySeries map[string]map[string]string

// Fetcher retrieves the raw daily series of one symbol.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string) (DailySeries, error)
}

// Client talks to the Alpha Vantage query endpoint.
type Client struct {
	baseURL      string
	apiKey       string
	function     string
	outputSize   string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
	logger       zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets retry behaviour for retryable failures.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithFunction selects the time series function (TIME_SERIES_DAILY or TIME_SERIES_DAILY_ADJUSTED).
func WithFunction(fn string) ClientOption {
	return func(c *Client) {
		if fn != "" {
			c.function = fn
		}
	}
}

// WithOutputSize selects "compact" (latest 100 points) or "full".
func WithOutputSize(size string) ClientOption {
	return func(c *Client) {
		if size != "" {
			c.outputSize = size
		}
	}
}

// NewClient creates a provider client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		function:     DefaultFunction,
		outputSize:   DefaultOutputSize,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		maxRetries:   3,
		retryBackoff: DefaultRetryBackoff,
		logger:       logger.L().With().Str("component", "alphavantage").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDaily downloads the daily series for symbol.
//
// Errors:
//   - apperrors.ErrMissingAPIKey when no key is configured (no request is made).
//   - *apperrors.ProviderError for HTTP failures, throttling notes and API error messages.
func (c *Client) FetchDaily(ctx context.Context, symbol string) (DailySeries, error) {
	if c.apiKey == "" {
		return nil, apperrors.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("function", c.function)
	params.Set("symbol", symbol)
	params.Set("outputsize", c.outputSize)
	params.Set("apikey", c.apiKey)

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// backoff * (0.5 to 1.5)
			wait := backoff / 2
			if backoff > 0 {
				wait += time.Duration(rand.Int64N(int64(backoff)))
			}
			c.logger.Debug().Int("attempt", attempt).Dur("backoff", wait).Str("symbol", symbol).Msg("retrying request")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			backoff *= 2
		}

		series, err := c.fetchOnce(ctx, params)
		if err == nil {
			return series, nil
		}
		lastErr = err

		var provErr *apperrors.ProviderError
		if !errors.As(err, &provErr) || !provErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, params url.Values) (DailySeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &apperrors.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return decodeDaily(body)
}

// decodeDaily classifies a 200 response. The provider reports throttling
// ("Note", "Information") and bad calls ("Error Message") in the body.
func decodeDaily(body []byte) (DailySeries, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if msg, ok := stringField(raw, "Error Message"); ok {
		return nil, &apperrors.ProviderError{Message: msg}
	}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := stringField(raw, key); ok {
			return nil, &apperrors.ProviderError{Message: msg, Throttled: true}
		}
	}

	ts, ok := raw[timeSeriesKey]
	if !ok {
		return nil, fmt.Errorf("response has no %q object", timeSeriesKey)
	}
	var series DailySeries
	if err := json.Unmarshal(ts, &series); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", timeSeriesKey, err)
	}
	return series, nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return string(v), true
	}
	return s, true
}
