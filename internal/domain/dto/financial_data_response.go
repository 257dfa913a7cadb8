package dto

import (
	"github.com/guttosm/finpulse/internal/domain/models"
)

// FinancialRecordDTO is one row of the GET /api/financial_data payload.
//
// Prices leave the API as JSON numbers; the exact decimal stays in storage.
type FinancialRecordDTO struct {
	Symbol     string  `json:"symbol" example:"IBM"`
	Date       string  `json:"date" example:"2023-05-04"`
	OpenPrice  float64 `json:"open_price" example:"125.5"`
	ClosePrice float64 `json:"close_price" example:"126.25"`
	Volume     int64   `json:"volume" example:"4012390"`
}

// FinancialDataResponse represents the JSON structure returned by the
// GET /api/financial_data endpoint.
type FinancialDataResponse struct {
	Data       []FinancialRecordDTO `json:"data"`
	Pagination models.Pagination    `json:"pagination"`
	Info       models.Info          `json:"info"`
}

// NewFinancialDataResponse assembles the listing payload.
//
// Behavior:
//   - When info carries any error, data is an empty array and pagination is
//     zero-valued, whatever was computed upstream.
//   - data is never null.
func NewFinancialDataResponse(records []models.FinancialRecord, p models.Pagination, info models.Info) FinancialDataResponse {
	info = normalizeInfo(info)
	if info.HasErrors() {
		return FinancialDataResponse{Data: []FinancialRecordDTO{}, Info: info}
	}

	data := make([]FinancialRecordDTO, 0, len(records))
	for _, rec := range records {
		data = append(data, toRecordDTO(rec))
	}
	return FinancialDataResponse{Data: data, Pagination: p, Info: info}
}

func toRecordDTO(rec models.FinancialRecord) FinancialRecordDTO {
	return FinancialRecordDTO{
		Symbol:     rec.Symbol,
		Date:       rec.Date.Format(models.DateLayout),
		OpenPrice:  rec.OpenPrice.InexactFloat64(),
		ClosePrice: rec.ClosePrice.InexactFloat64(),
		Volume:     rec.Volume,
	}
}

// normalizeInfo makes sure both code lists encode as arrays, never null.
func normalizeInfo(info models.Info) models.Info {
	if info.Warning == nil {
		info.Warning = []models.WarningCode{}
	}
	if info.Error == nil {
		info.Error = []models.ErrorCode{}
	}
	return info
}
