package catalog

import "github.com/niksmo/catalog-review/internal/core/domain"

// A PageInfo describes a display page of the derived view.
type PageInfo struct {
	Current int
	Total   int
	HasPrev bool
	HasNext bool
}

// Paginate slices ps for display. A non-positive perPage yields a single
// page holding everything. page is clamped to the valid range.
func Paginate(
	ps []domain.Product, page, perPage int,
) ([]domain.Product, PageInfo) {
	if perPage <= 0 || len(ps) == 0 {
		return ps, PageInfo{Current: 1, Total: 1}
	}

	total := len(ps) / perPage
	if len(ps)%perPage != 0 {
		total++
	}
	page = min(max(page, 1), total)

	start := (page - 1) * perPage
	end := start + min(perPage, len(ps)-start)

	return ps[start:end], PageInfo{
		Current: page,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < total,
	}
}
