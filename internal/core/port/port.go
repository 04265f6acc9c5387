package port

import (
	"context"

	"github.com/niksmo/catalog-review/internal/core/domain"
)

type closer interface {
	Close()
}

// Inbound ports.

type CatalogLoader interface {
	LoadCatalog(context.Context) error
}

type CatalogViewer interface {
	CatalogView() domain.View
}

type CriteriaSetter interface {
	SetCategory(ctx context.Context, category string)
	SetPriceBounds(ctx context.Context, min, max *float64) error
	SetSort(
		ctx context.Context,
		attribute domain.SortAttribute,
		direction domain.SortDirection,
	) error
	ApplyCriteria(context.Context, domain.Criteria) error
}

type ProductsManager interface {
	ProductPage(ctx context.Context, id string) (domain.ProductPage, error)
	CreateProduct(
		context.Context, domain.ProductDraft,
	) (domain.ProductDetails, error)
	UpdateProduct(
		ctx context.Context, id string, d domain.ProductDraft,
	) (domain.ProductDetails, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ReviewPoster interface {
	PostReview(context.Context, domain.Review) (domain.Review, error)
}

// Core ports.

type CatalogStore interface {
	BeginLoad() (gen uint64)
	Load(gen uint64, ps []domain.Product) bool
	Fail(gen uint64, err error) bool
	SetCategory(category string)
	SetPriceBounds(min, max *float64) error
	SetSort(domain.SortAttribute, domain.SortDirection) error
	Apply(domain.Criteria) error
	View() domain.View
}

// Outbound ports.

type ProductsAPI interface {
	ListProducts(context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.ProductDetails, error)
	CreateProduct(
		context.Context, domain.ProductDraft,
	) (domain.ProductDetails, error)
	UpdateProduct(
		ctx context.Context, id string, d domain.ProductDraft,
	) (domain.ProductDetails, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ReviewsAPI interface {
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	PostReview(context.Context, domain.Review) (domain.Review, error)
}

type BrowseEventsProducer interface {
	ProduceBrowseEvent(context.Context, domain.BrowseEvent) error
	closer
}

type CatalogChangesEmitter interface {
	EmitChange(context.Context, domain.CatalogChange) error
	closer
}
