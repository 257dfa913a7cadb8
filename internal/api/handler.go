package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/finpulse/internal/apperrors"
	"github.com/guttosm/finpulse/internal/domain/dto"
	"github.com/guttosm/finpulse/internal/domain/models"
	"github.com/guttosm/finpulse/internal/logger"
	"github.com/guttosm/finpulse/internal/query"
	"github.com/guttosm/finpulse/internal/service"
)

// Handler provides HTTP handlers for the financial data endpoints.
//
// Responsibilities:
//   - Collect raw query parameters and hand them to the validator
//   - Call the service layer with validated requests
//   - Translate results and failures into the data/pagination/info envelope
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	data  service.FinancialDataService
	stats service.StatisticsService
	opts  query.Options
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - data (service.FinancialDataService): listing use case.
//   - stats (service.StatisticsService): statistics use case.
//   - opts (query.Options): validation settings such as the symbol allow-list.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(data service.FinancialDataService, stats service.StatisticsService, opts query.Options) *Handler {
	return &Handler{data: data, stats: stats, opts: opts}
}

// GetFinancialData handles GET /api/financial_data requests.
//
// Query Parameters:
//   - start_date, end_date (string, optional): inclusive YYYY-MM-DD bounds.
//   - symbol (string, optional): ticker filter.
//   - limit (int, optional, default 5), page (int, optional, default 1).
//
// Responses:
//   - 200 OK: records, pagination and info (warnings).
//   - 400 Bad Request: validation errors listed in info.error.
//   - 500 Internal Server Error: DATABASE_ERROR.
//
// GetFinancialData godoc
// @Summary      List daily financial records
// @Description  Returns paginated daily open/close/volume records filtered by symbol and date range
// @Tags         financial_data
// @Produce      json
// @Param        start_date  query     string  false  "Start date in YYYY-MM-DD" example(2023-05-04)
// @Param        end_date    query     string  false  "End date in YYYY-MM-DD"   example(2023-05-14)
// @Param        symbol      query     string  false  "Ticker symbol"            example(IBM)
// @Param        limit       query     int     false  "Records per page"         default(5)
// @Param        page        query     int     false  "Page number"              default(1)
// @Success      200         {object}  dto.FinancialDataResponse  "Success"
// @Failure      400         {object}  dto.FinancialDataResponse  "Validation error"
// @Failure      500         {object}  dto.FinancialDataResponse  "Database error"
// @Router       /api/financial_data [get]
func (h *Handler) GetFinancialData(c *gin.Context) {
	// ─── Validate params ──────────────────────────────────────
	req, info := query.ParseListParams(rawParams(c), h.opts)
	if info.HasErrors() {
		c.JSON(http.StatusBadRequest, dto.NewFinancialDataResponse(nil, models.Pagination{}, info))
		return
	}

	// ─── Query service (with request context) ─────────────────
	page, err := h.data.ListFinancialData(c.Request.Context(), req)
	if err != nil {
		status, code := failure(c, err)
		info.AddError(code)
		c.JSON(status, dto.NewFinancialDataResponse(nil, models.Pagination{}, info))
		return
	}

	// ─── Build and return response DTO ────────────────────────
	info.AddWarning(page.Warnings...)
	c.JSON(http.StatusOK, dto.NewFinancialDataResponse(page.Records, page.Pagination, info))
}

// GetStatistics handles GET /api/statistics requests.
//
// Query Parameters:
//   - start_date, end_date (string, required): inclusive YYYY-MM-DD bounds.
//   - symbol (string, required): ticker.
//
// Responses:
//   - 200 OK: average open/close price and volume.
//   - 400 Bad Request: missing or invalid parameters.
//   - 404 Not Found: NO_DATA_FOUND, nothing in the range.
//   - 500 Internal Server Error: DATABASE_ERROR.
//
// GetStatistics godoc
// @Summary      Average prices and volume
// @Description  Returns the average daily open price, close price and volume of a symbol over a date range
// @Tags         statistics
// @Produce      json
// @Param        start_date  query     string  true  "Start date in YYYY-MM-DD" example(2023-05-04)
// @Param        end_date    query     string  true  "End date in YYYY-MM-DD"   example(2023-05-14)
// @Param        symbol      query     string  true  "Ticker symbol"            example(IBM)
// @Success      200         {object}  dto.StatisticsResponse  "Success"
// @Failure      400         {object}  dto.StatisticsResponse  "Validation error"
// @Failure      404         {object}  dto.StatisticsResponse  "No data found"
// @Failure      500         {object}  dto.StatisticsResponse  "Database error"
// @Router       /api/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	req, info := query.ParseStatisticsParams(rawParams(c), h.opts)
	if info.HasErrors() {
		c.JSON(http.StatusBadRequest, dto.NewStatisticsResponse(models.Statistics{}, info))
		return
	}

	stats, err := h.stats.GetStatistics(c.Request.Context(), req)
	if err != nil {
		status, code := failure(c, err)
		info.AddError(code)
		c.JSON(status, dto.NewStatisticsResponse(models.Statistics{}, info))
		return
	}

	c.JSON(http.StatusOK, dto.NewStatisticsResponse(stats, info))
}

// rawParams collects the query string, telling absent parameters apart from empty ones.
func rawParams(c *gin.Context) query.RawParams {
	param := func(key string) query.Param {
		v, ok := c.GetQuery(key)
		return query.Param{Value: v, Present: ok}
	}
	return query.RawParams{
		StartDate: param("start_date"),
		EndDate:   param("end_date"),
		Symbol:    param("symbol"),
		Limit:     param("limit"),
		Page:      param("page"),
	}
}

// failure maps a service error to an HTTP status and info code. Anything that
// is not a missing-data condition is reported as a database failure and logged.
func failure(c *gin.Context, err error) (int, models.ErrorCode) {
	if errors.Is(err, apperrors.ErrDataNotFound) {
		return http.StatusNotFound, models.ErrNoDataFound
	}

	ev := logger.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath())
	var dbErr *apperrors.DatabaseError
	if errors.As(err, &dbErr) {
		ev = ev.Str("op", dbErr.Op).Str("sqlstate", dbErr.Code)
	}
	ev.Msg("query failed")
	return http.StatusInternalServerError, models.ErrDatabaseError
}
