package service

import (
	"context"

	"github.com/guttosm/finpulse/internal/domain/models"
	"github.com/guttosm/finpulse/internal/query"
	"github.com/guttosm/finpulse/internal/storage"
)

// StatisticsService computes averages for a symbol over a date range.
type StatisticsService interface {
	GetStatistics(ctx context.Context, req models.StatisticsRequest) (models.Statistics, error)
}

type statisticsService struct {
	repo storage.FinancialDataReader
}

func NewStatisticsService(repo storage.FinancialDataReader) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics returns apperrors.ErrDataNotFound when no row matches and
// apperrors.DatabaseError when storage fails.
func (s *statisticsService) GetStatistics(ctx context.Context, req models.StatisticsRequest) (models.Statistics, error) {
	totals, err := s.repo.AggregateFinancialData(ctx, req.Filter())
	if err != nil {
		return models.Statistics{}, err
	}

	avg, err := query.Average(totals)
	if err != nil {
		return models.Statistics{}, err
	}

	return models.Statistics{
		Symbol:            req.Symbol,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AverageOpenPrice:  avg.OpenPrice,
		AverageClosePrice: avg.ClosePrice,
		AverageVolume:     avg.Volume,
	}, nil
}
