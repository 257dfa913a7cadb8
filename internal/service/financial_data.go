package service

import (
	"context"
	"time"

	"github.com/guttosm/finpulse/internal/domain/models"
	"github.com/guttosm/finpulse/internal/query"
	"github.com/guttosm/finpulse/internal/storage"
)

// FinancialDataService defines business logic for listing daily records.
type FinancialDataService interface {
	ListFinancialData(ctx context.Context, req models.QueryRequest) (models.RecordPage, error)
}

type financialDataService struct {
	repo storage.FinancialDataReader
	now  func() time.Time
}

func NewFinancialDataService(repo storage.FinancialDataReader) FinancialDataService {
	return &financialDataService{repo: repo, now: time.Now}
}

// ListFinancialData returns one page of records matching req.
//
// Behavior:
//   - An absent end date is bounded to today (UTC).
//   - Pagination is computed from the filtered count; the warnings it raises
//     are returned in the page.
//   - No matching rows is a valid answer: an empty page, not an error.
//   - Storage failures come back as apperrors.DatabaseError.
func (s *financialDataService) ListFinancialData(ctx context.Context, req models.QueryRequest) (models.RecordPage, error) {
	filter := req.Filter()
	if filter.EndDate == nil {
		today := models.TruncateToDate(s.now().UTC())
		filter.EndDate = &today
	}

	var page models.RecordPage
	records, _, err := s.repo.ListFinancialData(ctx, filter, func(count int) (int, int) {
		page.Pagination, page.Warnings = query.Paginate(count, req.Limit, req.Page)
		return page.Pagination.Limit, page.Pagination.Offset()
	})
	if err != nil {
		return models.RecordPage{}, err
	}
	page.Records = records
	return page, nil
}
