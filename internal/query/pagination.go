package query

import "github.com/guttosm/finpulse/internal/domain/models"

// Paginate computes the effective pagination for count matching rows.
//
// Rules, applied in order:
//  1. count is clamped to >= 0.
//  2. limit < 1 or limit > count resets limit to the default (TRUNCATE_LIMIT).
//     An empty result therefore always truncates.
//  3. pages = max(1, ceil(count/limit)) with the effective limit.
//  4. page < 1 or page > pages resets page to the default (TRUNCATE_PAGE).
//
// Paginate never slices data; callers fetch [Offset(), Offset()+Limit).
func Paginate(count, limit, page int) (models.Pagination, []models.WarningCode) {
	var warnings []models.WarningCode

	if count < 0 {
		count = 0
	}

	if limit < 1 || limit > count {
		limit = models.DefaultLimit
		warnings = append(warnings, models.WarnTruncateLimit)
	}

	pages := (count + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	if page < 1 || page > pages {
		page = models.DefaultPage
		warnings = append(warnings, models.WarnTruncatePage)
	}

	return models.Pagination{Count: count, Limit: limit, Page: page, Pages: pages}, warnings
}
