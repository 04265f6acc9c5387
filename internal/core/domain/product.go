package domain

import (
	"fmt"
	"strings"
)

type (
	// A Product is a catalog list entry. Immutable once fetched.
	Product struct {
		ID       string
		Name     string
		Price    float64
		Category string
		Rating   float64
		Images   []string
	}

	ProductDetails struct {
		Product
		Description      string
		Tags             []string
		Use              string
		MinimumQuantity  int
		SellingPrice     float64
		AddedBy          string
		ExpiresAt        string
		QuantityOnHand   int
		ReservedQuantity int
		Discount         float64
	}

	// A ProductDraft is the payload of create and update operations.
	ProductDraft struct {
		Name             string
		Description      string
		Price            float64
		Category         string
		Tags             []string
		Use              string
		MinimumQuantity  int
		SellingPrice     float64
		AddedBy          string
		ExpiresAt        string
		QuantityOnHand   int
		ReservedQuantity int
		Discount         float64
		Images           []string
	}
)

// Normalize trims text fields and drops blank tags and image URLs.
func (d ProductDraft) Normalize() ProductDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Use = strings.TrimSpace(d.Use)
	d.AddedBy = strings.TrimSpace(d.AddedBy)
	d.ExpiresAt = strings.TrimSpace(d.ExpiresAt)
	d.Tags = nonBlank(d.Tags)
	d.Images = nonBlank(d.Images)
	return d
}

func (d ProductDraft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}

	numbers := []struct {
		field string
		value float64
	}{
		{"price", d.Price},
		{"sellingPrice", d.SellingPrice},
		{"discount", d.Discount},
		{"minimumQuantity", float64(d.MinimumQuantity)},
		{"quantityOnHand", float64(d.QuantityOnHand)},
		{"reservedQuantity", float64(d.ReservedQuantity)},
	}
	for _, n := range numbers {
		if n.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidProduct, n.field)
		}
	}
	return nil
}

func nonBlank(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
