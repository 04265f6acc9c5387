package catalogapi

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/niksmo/catalog-review/internal/core/domain"
)

type (
	product struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Price    number    `json:"price"`
		Category string    `json:"category"`
		Rating   number    `json:"rating"`
		Images   imageRefs `json:"imageUrls"`
	}

	productDetails struct {
		ID               string    `json:"id"`
		Name             string    `json:"name"`
		Description      string    `json:"description"`
		Price            number    `json:"price"`
		Category         string    `json:"category"`
		Rating           number    `json:"rating"`
		Tags             []string  `json:"tags"`
		Use              string    `json:"use"`
		MinimumQuantity  number    `json:"minimumQuantity"`
		SellingPrice     number    `json:"sellingPrice"`
		AddedBy          string    `json:"addedBy"`
		ExpiresAt        string    `json:"expiresAt"`
		QuantityOnHand   number    `json:"quantityOnHand"`
		ReservedQuantity number    `json:"reservedQuantity"`
		Discount         number    `json:"discount"`
		Images           imageRefs `json:"imageUrls"`
	}

	productPayload struct {
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		Price            float64  `json:"price"`
		Category         string   `json:"category"`
		Tags             []string `json:"tags"`
		Use              string   `json:"use"`
		MinimumQuantity  int      `json:"minimumQuantity"`
		SellingPrice     float64  `json:"sellingPrice"`
		AddedBy          string   `json:"addedBy"`
		ExpiresAt        string   `json:"expiresAt"`
		QuantityOnHand   int      `json:"quantityOnHand"`
		ReservedQuantity int      `json:"reservedQuantity"`
		Discount         float64  `json:"discount"`
		ImageURLs        []string `json:"imageUrls"`
	}

	productsEnvelope struct {
		Data []product `json:"data"`
	}

	review struct {
		ID           string `json:"id,omitempty"`
		ProductID    string `json:"productId"`
		ReviewerName string `json:"reviewerName"`
		Rating       number `json:"rating"`
		Comment      string `json:"comment"`
	}

	reviewPayload struct {
		ProductID    string `json:"productId"`
		ReviewerName string `json:"reviewerName"`
		Rating       int    `json:"rating"`
		Comment      string `json:"comment"`
	}
)

// A number accepts a JSON number or a numeric string.
// Empty strings and null decode to zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = number(v)
		return nil
	}

	var v float64
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// imageRefs accepts a single URL string or an array of URLs.
type imageRefs []string

func (r *imageRefs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = nil
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*r = nil
			return nil
		}
		*r = imageRefs{s}
		return nil
	}

	var ss []string
	if err := sonic.Unmarshal(b, &ss); err != nil {
		return err
	}
	*r = ss
	return nil
}

func (p product) toDomain() domain.Product {
	return domain.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    float64(p.Price),
		Category: p.Category,
		Rating:   float64(p.Rating),
		Images:   []string(p.Images),
	}
}

func (p productDetails) toDomain() domain.ProductDetails {
	return domain.ProductDetails{
		Product: domain.Product{
			ID:       p.ID,
			Name:     p.Name,
			Price:    float64(p.Price),
			Category: p.Category,
			Rating:   float64(p.Rating),
			Images:   []string(p.Images),
		},
		Description:      p.Description,
		Tags:             p.Tags,
		Use:              p.Use,
		MinimumQuantity:  int(p.MinimumQuantity),
		SellingPrice:     float64(p.SellingPrice),
		AddedBy:          p.AddedBy,
		ExpiresAt:        p.ExpiresAt,
		QuantityOnHand:   int(p.QuantityOnHand),
		ReservedQuantity: int(p.ReservedQuantity),
		Discount:         float64(p.Discount),
	}
}

func (r review) toDomain() domain.Review {
	return domain.Review{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ReviewerName: r.ReviewerName,
		Rating:       int(r.Rating),
		Comment:      r.Comment,
	}
}

func toProductPayload(d domain.ProductDraft) productPayload {
	return productPayload{
		Name:             d.Name,
		Description:      d.Description,
		Price:            d.Price,
		Category:         d.Category,
		Tags:             d.Tags,
		Use:              d.Use,
		MinimumQuantity:  d.MinimumQuantity,
		SellingPrice:     d.SellingPrice,
		AddedBy:          d.AddedBy,
		ExpiresAt:        d.ExpiresAt,
		QuantityOnHand:   d.QuantityOnHand,
		ReservedQuantity: d.ReservedQuantity,
		Discount:         d.Discount,
		ImageURLs:        d.Images,
	}
}

func toReviewPayload(r domain.Review) reviewPayload {
	return reviewPayload{
		ProductID:    r.ProductID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
}

// decodeProducts accepts either a bare array or a {"data": [...]} envelope.
func decodeProducts(b []byte) ([]product, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var ps []product
		err := sonic.Unmarshal(b, &ps)
		return ps, err
	}

	var env productsEnvelope
	err := sonic.Unmarshal(b, &env)
	return env.Data, err
}

// decodeReviews accepts either a bare array or a {"data": [...]} envelope.
func decodeReviews(b []byte) ([]review, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var rs []review
		err := sonic.Unmarshal(b, &rs)
		return rs, err
	}

	var env struct {
		Data []review `json:"data"`
	}
	err := sonic.Unmarshal(b, &env)
	return env.Data, err
}
