// Package catalog holds the in-memory catalog store and the pure
// filter-and-sort pipeline that derives its view.
package catalog

import (
	"cmp"
	"slices"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"golang.org/x/text/cases"
)

// Apply filters ps by c.Filter and orders the result by c.Sort.
//
// ps is never modified and the returned slice is never nil.
// Apply is safe for concurrent use.
func Apply(ps []domain.Product, c domain.Criteria) []domain.Product {
	return Sort(Filter(ps, c.Filter), c.Sort)
}

// Filter returns the products that satisfy every predicate of f,
// preserving their relative order.
func Filter(ps []domain.Product, f domain.FilterCriteria) []domain.Product {
	match := categoryMatcher(f.Category)
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if !match(p.Category) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a stably sorted copy of ps. Equal values keep their
// input order in both directions.
func Sort(ps []domain.Product, s domain.SortSpec) []domain.Product {
	out := make([]domain.Product, len(ps))
	copy(out, ps)

	attr := s.Attribute
	compare := func(a, b domain.Product) int {
		return cmp.Compare(attr.Of(a), attr.Of(b))
	}
	if s.Direction == domain.Descending {
		compare = func(a, b domain.Product) int {
			return cmp.Compare(attr.Of(b), attr.Of(a))
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}

// IsWildcard reports whether category selects every product.
func IsWildcard(category string) bool {
	return category == "" || foldEqual(category, domain.CategoryAll)
}

func categoryMatcher(category string) func(string) bool {
	if IsWildcard(category) {
		return func(string) bool { return true }
	}
	// cases.Caser is stateful, one per call keeps Filter concurrency safe.
	folder := cases.Fold()
	want := folder.String(category)
	return func(got string) bool {
		return folder.String(got) == want
	}
}

func foldEqual(a, b string) bool {
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}
