package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
)

var (
	_ port.CatalogLoader   = (*Service)(nil)
	_ port.CatalogViewer   = (*Service)(nil)
	_ port.CriteriaSetter  = (*Service)(nil)
	_ port.ProductsManager = (*Service)(nil)
	_ port.ReviewPoster    = (*Service)(nil)
)

// A Service connects the catalog store with the remote catalog API and
// the optional event producers. Nil producers are skipped.
type Service struct {
	store          port.CatalogStore
	productsAPI    port.ProductsAPI
	reviewsAPI     port.ReviewsAPI
	browseProducer port.BrowseEventsProducer
	changesEmitter port.CatalogChangesEmitter
}

func New(
	store port.CatalogStore,
	productsAPI port.ProductsAPI,
	reviewsAPI port.ReviewsAPI,
	browseProducer port.BrowseEventsProducer,
	changesEmitter port.CatalogChangesEmitter,
) Service {
	return Service{
		store,
		productsAPI,
		reviewsAPI,
		browseProducer,
		changesEmitter,
	}
}

// LoadCatalog fetches the product collection into the store.
// On failure the store enters error status. The fetch outlives ctx
// cancellation so an abandoned request cannot fail the shared store.
// A load superseded by a later one leaves the store untouched.
func (s Service) LoadCatalog(ctx context.Context) error {
	const op = "Service.LoadCatalog"
	log := slog.With("op", op)

	ctx = context.WithoutCancel(ctx)
	gen := s.store.BeginLoad()

	ps, err := s.productsAPI.ListProducts(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", op, domain.ErrSourceUnavailable, err)
		if !s.store.Fail(gen, err) {
			log.Debug("stale catalog load dropped", "err", err)
			return nil
		}
		log.Error("failed to load catalog", "err", err)
		return err
	}

	if !s.store.Load(gen, ps) {
		log.Debug("stale catalog load dropped", "nProducts", len(ps))
		return nil
	}
	log.Info("catalog loaded", "nProducts", len(ps))
	return nil
}

func (s Service) CatalogView() domain.View {
	return s.store.View()
}

func (s Service) SetCategory(ctx context.Context, category string) {
	s.store.SetCategory(category)
	s.publishBrowseEvent(ctx)
}

func (s Service) SetPriceBounds(ctx context.Context, min, max *float64) error {
	const op = "Service.SetPriceBounds"

	if err := s.store.SetPriceBounds(min, max); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.publishBrowseEvent(ctx)
	return nil
}

func (s Service) SetSort(
	ctx context.Context,
	attribute domain.SortAttribute,
	direction domain.SortDirection,
) error {
	const op = "Service.SetSort"

	if err := s.store.SetSort(attribute, direction); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.publishBrowseEvent(ctx)
	return nil
}

func (s Service) ApplyCriteria(ctx context.Context, c domain.Criteria) error {
	const op = "Service.ApplyCriteria"

	if err := s.store.Apply(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.publishBrowseEvent(ctx)
	return nil
}

func (s Service) ProductPage(
	ctx context.Context, id string,
) (domain.ProductPage, error) {
	const op = "Service.ProductPage"

	if err := ctx.Err(); err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.productsAPI.GetProduct(ctx, id)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	rs, err := s.reviewsAPI.ListReviews(ctx, id)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.ProductPage{Product: p, Reviews: rs}, nil
}

func (s Service) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	const op = "Service.CreateProduct"

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.productsAPI.CreateProduct(ctx, d)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	s.afterChange(ctx, domain.ProductCreated, p.ID)
	return p, nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id string, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	const op = "Service.UpdateProduct"

	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.productsAPI.UpdateProduct(ctx, id, d)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	s.afterChange(ctx, domain.ProductUpdated, id)
	return p, nil
}

func (s Service) DeleteProduct(ctx context.Context, id string) error {
	const op = "Service.DeleteProduct"

	if err := s.productsAPI.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.afterChange(ctx, domain.ProductDeleted, id)
	return nil
}

func (s Service) PostReview(
	ctx context.Context, r domain.Review,
) (domain.Review, error) {
	const op = "Service.PostReview"

	r = r.Normalize()
	if err := r.Validate(); err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	posted, err := s.reviewsAPI.PostReview(ctx, r)
	if err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	if posted.ID == "" {
		posted.ID = uuid.NewString()
	}
	if posted.ProductID == "" {
		posted.ProductID = r.ProductID
	}

	s.emitChange(ctx, domain.ReviewPosted, r.ProductID)
	return posted, nil
}

// afterChange refetches the catalog, the way a new page load would,
// and announces the change.
func (s Service) afterChange(
	ctx context.Context, kind domain.ChangeKind, productID string,
) {
	const op = "Service.afterChange"

	if err := s.LoadCatalog(ctx); err != nil {
		slog.Warn("catalog is stale after change",
			"op", op, "kind", kind, "err", err)
	}
	s.emitChange(ctx, kind, productID)
}

func (s Service) publishBrowseEvent(ctx context.Context) {
	const op = "Service.publishBrowseEvent"

	if s.browseProducer == nil {
		return
	}

	v := s.store.View()
	evt := domain.BrowseEvent{
		Criteria:   v.Criteria,
		Matched:    len(v.Products),
		OccurredAt: time.Now(),
	}

	if err := s.browseProducer.ProduceBrowseEvent(ctx, evt); err != nil {
		slog.Warn("failed to publish browse event", "op", op, "err", err)
	}
}

func (s Service) emitChange(
	ctx context.Context, kind domain.ChangeKind, productID string,
) {
	const op = "Service.emitChange"

	if s.changesEmitter == nil {
		return
	}

	change := domain.CatalogChange{
		Kind:       kind,
		ProductID:  productID,
		OccurredAt: time.Now(),
	}

	if err := s.changesEmitter.EmitChange(ctx, change); err != nil {
		slog.Warn("failed to emit catalog change", "op", op, "err", err)
	}
}

// Close releases the event producers.
func (s Service) Close() {
	if s.browseProducer != nil {
		s.browseProducer.Close()
	}
	if s.changesEmitter != nil {
		s.changesEmitter.Close()
	}
}
