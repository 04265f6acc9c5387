package domain

import (
	"fmt"
	"math"
)

// CategoryAll is the wildcard category selector.
const CategoryAll = "All"

type SortAttribute string

const (
	SortByPrice  SortAttribute = "price"
	SortByRating SortAttribute = "rating"
)

func (a SortAttribute) Validate() error {
	switch a {
	case SortByPrice, SortByRating:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSortAttribute, string(a))
}

// Of returns the numeric value of the attribute for p.
func (a SortAttribute) Of(p Product) float64 {
	if a == SortByRating {
		return p.Rating
	}
	return p.Price
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func (d SortDirection) Validate() error {
	switch d {
	case Ascending, Descending:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSortDirection, string(d))
}

type FilterCriteria struct {
	Category string
	MinPrice *float64 // inclusive, nil means unbounded
	MaxPrice *float64 // inclusive, nil means unbounded
}

func (f FilterCriteria) Validate() error {
	for _, b := range []*float64{f.MinPrice, f.MaxPrice} {
		if b != nil && math.IsNaN(*b) {
			return fmt.Errorf("%w: bound is not a number", ErrInvalidPriceRange)
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf(
			"%w: min=%v max=%v", ErrInvalidPriceRange, *f.MinPrice, *f.MaxPrice,
		)
	}
	return nil
}

type SortSpec struct {
	Attribute SortAttribute
	Direction SortDirection
}

func (s SortSpec) Validate() error {
	if err := s.Attribute.Validate(); err != nil {
		return err
	}
	return s.Direction.Validate()
}

type Criteria struct {
	Filter FilterCriteria
	Sort   SortSpec
}

// DefaultCriteria selects every category without price bounds,
// ordered by ascending price.
func DefaultCriteria() Criteria {
	return Criteria{
		Filter: FilterCriteria{Category: CategoryAll},
		Sort:   SortSpec{Attribute: SortByPrice, Direction: Ascending},
	}
}

func (c Criteria) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	return c.Sort.Validate()
}

// Bound is a helper for optional price bounds.
func Bound(v float64) *float64 {
	return &v
}
