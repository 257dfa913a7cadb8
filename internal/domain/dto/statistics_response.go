package dto

import (
	"github.com/guttosm/finpulse/internal/domain/models"
)

// StatisticsDTO is the data object of GET /api/statistics.
type StatisticsDTO struct {
	StartDate              string  `json:"start_date" example:"2023-05-04"`
	EndDate                string  `json:"end_date" example:"2023-05-14"`
	Symbol                 string  `json:"symbol" example:"IBM"`
	AverageDailyOpenPrice  float64 `json:"average_daily_open_price" example:"137.54"`
	AverageDailyClosePrice float64 `json:"average_daily_close_price" example:"136.67"`
	AverageDailyVolume     int64   `json:"average_daily_volume" example:"3697536"`
}

// StatisticsInfo differs from models.Info: error is a single comma-joined
// string ("" on success).
type StatisticsInfo struct {
	Warning []models.WarningCode `json:"warning,omitempty" swaggertype:"array,string" example:"SWAP_START_END_DATE"`
	Error   string               `json:"error" example:""`
}

// StatisticsResponse represents the JSON structure returned by the
// GET /api/statistics endpoint.
type StatisticsResponse struct {
	Data StatisticsDTO  `json:"data"`
	Info StatisticsInfo `json:"info"`
}

// NewStatisticsResponse assembles the statistics payload. With errors in
// info, data is the zero object.
func NewStatisticsResponse(stats models.Statistics, info models.Info) StatisticsResponse {
	resp := StatisticsResponse{
		Info: StatisticsInfo{Warning: info.Warning, Error: info.ErrorString()},
	}
	if info.HasErrors() {
		return resp
	}

	resp.Data = StatisticsDTO{
		StartDate:              stats.StartDate.Format(models.DateLayout),
		EndDate:                stats.EndDate.Format(models.DateLayout),
		Symbol:                 stats.Symbol,
		AverageDailyOpenPrice:  stats.AverageOpenPrice.InexactFloat64(),
		AverageDailyClosePrice: stats.AverageClosePrice.InexactFloat64(),
		AverageDailyVolume:     stats.AverageVolume,
	}
	return resp
}
