package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("catalog source unavailable")
)

var (
	ErrInvalidPriceRange = fmt.Errorf(
		"%w: min price is greater than max price", ErrValidation,
	)
	ErrUnknownSortAttribute = fmt.Errorf(
		"%w: unknown sort attribute", ErrValidation,
	)
	ErrUnknownSortDirection = fmt.Errorf(
		"%w: unknown sort direction", ErrValidation,
	)
	ErrInvalidReview  = fmt.Errorf("%w: invalid review", ErrValidation)
	ErrInvalidProduct = fmt.Errorf("%w: invalid product", ErrValidation)
)
