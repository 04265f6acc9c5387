package httphandler

import (
	"github.com/niksmo/catalog-review/internal/core/catalog"
	"github.com/niksmo/catalog-review/internal/core/domain"
)

type (
	Product struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Price     float64  `json:"price"`
		Category  string   `json:"category"`
		Rating    float64  `json:"rating"`
		ImageURLs []string `json:"image_urls"`
	}

	ProductDetails struct {
		Product
		Description      string   `json:"description"`
		Tags             []string `json:"tags"`
		Use              string   `json:"use"`
		MinimumQuantity  int      `json:"minimum_quantity"`
		SellingPrice     float64  `json:"selling_price"`
		AddedBy          string   `json:"added_by"`
		ExpiresAt        string   `json:"expires_at"`
		QuantityOnHand   int      `json:"quantity_on_hand"`
		ReservedQuantity int      `json:"reserved_quantity"`
		Discount         float64  `json:"discount"`
	}

	ProductDraft struct {
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		Price            float64  `json:"price"`
		Category         string   `json:"category"`
		Tags             []string `json:"tags"`
		Use              string   `json:"use"`
		MinimumQuantity  int      `json:"minimum_quantity"`
		SellingPrice     float64  `json:"selling_price"`
		AddedBy          string   `json:"added_by"`
		ExpiresAt        string   `json:"expires_at"`
		QuantityOnHand   int      `json:"quantity_on_hand"`
		ReservedQuantity int      `json:"reserved_quantity"`
		Discount         float64  `json:"discount"`
		ImageURLs        []string `json:"image_urls"`
	}

	Review struct {
		ID           string `json:"id"`
		ProductID    string `json:"product_id"`
		ReviewerName string `json:"reviewer_name"`
		Rating       int    `json:"rating"`
		Comment      string `json:"comment"`
	}

	ProductPage struct {
		Product ProductDetails `json:"product"`
		Reviews []Review       `json:"reviews"`
	}
)

type (
	Criteria struct {
		Category      string   `json:"category"`
		MinPrice      *float64 `json:"min_price"`
		MaxPrice      *float64 `json:"max_price"`
		SortAttribute string   `json:"sort_attribute"`
		SortOrder     string   `json:"sort_order"`
	}

	Page struct {
		Current int  `json:"current"`
		Total   int  `json:"total"`
		HasPrev bool `json:"has_prev"`
		HasNext bool `json:"has_next"`
	}

	CatalogView struct {
		Status    string    `json:"status"`
		NoMatches bool      `json:"no_matches"`
		Error     string    `json:"error,omitempty"`
		Products  []Product `json:"products"`
		Criteria  Criteria  `json:"criteria"`
		Page      Page      `json:"page"`
	}
)

type (
	CategoryRequest struct {
		Category string `json:"category"`
	}

	PriceBoundsRequest struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}

	SortRequest struct {
		Attribute string `json:"attribute"`
		Direction string `json:"direction"`
	}

	// CriteriaForm is the "apply filters" form. Empty price fields mean
	// no bound.
	CriteriaForm struct {
		Category      string `schema:"category"`
		MinPrice      string `schema:"min_price"`
		MaxPrice      string `schema:"max_price"`
		SortAttribute string `schema:"sort_attribute"`
		SortOrder     string `schema:"sort_order"`
	}

	PageQuery struct {
		Page    int `schema:"page"`
		PerPage int `schema:"per_page"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func toProduct(p domain.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Rating:    p.Rating,
		ImageURLs: p.Images,
	}
}

func toProductDetails(p domain.ProductDetails) ProductDetails {
	return ProductDetails{
		Product:          toProduct(p.Product),
		Description:      p.Description,
		Tags:             p.Tags,
		Use:              p.Use,
		MinimumQuantity:  p.MinimumQuantity,
		SellingPrice:     p.SellingPrice,
		AddedBy:          p.AddedBy,
		ExpiresAt:        p.ExpiresAt,
		QuantityOnHand:   p.QuantityOnHand,
		ReservedQuantity: p.ReservedQuantity,
		Discount:         p.Discount,
	}
}

func toReview(r domain.Review) Review {
	return Review{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
}

func toProductPage(p domain.ProductPage) ProductPage {
	reviews := make([]Review, len(p.Reviews))
	for i := range p.Reviews {
		reviews[i] = toReview(p.Reviews[i])
	}
	return ProductPage{
		Product: toProductDetails(p.Product),
		Reviews: reviews,
	}
}

func (d ProductDraft) toDomain() domain.ProductDraft {
	return domain.ProductDraft{
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
		Images:           d.ImageURLs,
	}
}

func toCriteria(c domain.Criteria) Criteria {
	return Criteria{
		Category:      c.Filter.Category,
		MinPrice:      c.Filter.MinPrice,
		MaxPrice:      c.Filter.MaxPrice,
		SortAttribute: string(c.Sort.Attribute),
		SortOrder:     string(c.Sort.Direction),
	}
}

func toCatalogView(v domain.View, pq PageQuery) CatalogView {
	products, info := catalog.Paginate(v.Products, pq.Page, pq.PerPage)

	out := CatalogView{
		Status:    v.Status.String(),
		NoMatches: v.NoMatches(),
		Products:  make([]Product, len(products)),
		Criteria:  toCriteria(v.Criteria),
		Page: Page{
			Current: info.Current,
			Total:   info.Total,
			HasPrev: info.HasPrev,
			HasNext: info.HasNext,
		},
	}
	for i := range products {
		out.Products[i] = toProduct(products[i])
	}
	if v.Err != nil {
		out.Error = "error loading catalog"
	}
	return out
}
