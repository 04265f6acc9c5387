package domain

import (
	"fmt"
	"strings"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Review struct {
	ID           string
	ProductID    string
	ReviewerName string
	Rating       int
	Comment      string
}

func (r Review) Normalize() Review {
	r.ReviewerName = strings.TrimSpace(r.ReviewerName)
	r.Comment = strings.TrimSpace(r.Comment)
	return r
}

func (r Review) Validate() error {
	if r.ProductID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidReview)
	}
	if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
		return fmt.Errorf(
			"%w: rating should be between %d and %d",
			ErrInvalidReview, MinReviewRating, MaxReviewRating,
		)
	}
	if strings.TrimSpace(r.ReviewerName) == "" ||
		strings.TrimSpace(r.Comment) == "" {
		return fmt.Errorf(
			"%w: name and comment cannot be empty", ErrInvalidReview,
		)
	}
	return nil
}

// A ProductPage is a product with its reviews.
type ProductPage struct {
	Product ProductDetails
	Reviews []Review
}
