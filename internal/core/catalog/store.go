package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
)

var _ port.CatalogStore = (*Store)(nil)

// A Store owns the fetched product collection, the active criteria and
// the view derived from both. Every mutating call recomputes the view
// before it returns.
//
// Loads are tokened: only the latest [Store.BeginLoad] may complete, so a
// slow fetch started earlier cannot overwrite a newer one.
type Store struct {
	mu       sync.RWMutex
	gen      uint64
	status   domain.Status
	err      error
	source   []domain.Product
	criteria domain.Criteria
	derived  []domain.Product
}

// NewStore returns a store in loading status with default criteria.
func NewStore() *Store {
	return &Store{
		status:   domain.StatusLoading,
		criteria: domain.DefaultCriteria(),
		derived:  []domain.Product{},
	}
}

// BeginLoad marks a fetch as pending and returns its token.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.status = domain.StatusLoading
	s.err = nil
	s.source = nil
	s.derived = []domain.Product{}
	return s.gen
}

// Load replaces the source collection and keeps the active criteria.
// A selected category absent from ps yields an empty view.
// It reports false and changes nothing when gen is superseded.
func (s *Store) Load(gen uint64, ps []domain.Product) bool {
	const op = "Store.Load"

	source := cloneProducts(ps)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}

	s.status = domain.StatusReady
	s.err = nil
	s.source = source
	s.recompute()

	slog.Debug("catalog loaded", "op", op,
		"nProducts", len(source), "nMatched", len(s.derived))
	return true
}

// Fail moves the store to error status and drops the source collection.
// It reports false and changes nothing when gen is superseded.
func (s *Store) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}

	s.status = domain.StatusError
	s.err = err
	s.source = nil
	s.derived = []domain.Product{}
	return true
}

func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria.Filter.Category = category
	s.recompute()
}

// SetPriceBounds rejects min > max with [domain.ErrInvalidPriceRange]
// and leaves the criteria and view untouched.
func (s *Store) SetPriceBounds(min, max *float64) error {
	const op = "Store.SetPriceBounds"

	f := domain.FilterCriteria{MinPrice: clone(min), MaxPrice: clone(max)}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria.Filter.MinPrice = f.MinPrice
	s.criteria.Filter.MaxPrice = f.MaxPrice
	s.recompute()
	return nil
}

func (s *Store) SetSort(
	attribute domain.SortAttribute, direction domain.SortDirection,
) error {
	const op = "Store.SetSort"

	spec := domain.SortSpec{Attribute: attribute, Direction: direction}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria.Sort = spec
	s.recompute()
	return nil
}

// Apply replaces all criteria at once with a single recomputation.
func (s *Store) Apply(c domain.Criteria) error {
	const op = "Store.Apply"

	c.Filter.MinPrice = clone(c.Filter.MinPrice)
	c.Filter.MaxPrice = clone(c.Filter.MaxPrice)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria = c
	s.recompute()
	return nil
}

// View returns the current derived view. It never fails.
func (s *Store) View() domain.View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := cloneProducts(s.derived)

	c := s.criteria
	c.Filter.MinPrice = clone(c.Filter.MinPrice)
	c.Filter.MaxPrice = clone(c.Filter.MaxPrice)

	return domain.View{
		Status:   s.status,
		Products: products,
		Criteria: c,
		Err:      s.err,
	}
}

// recompute must be called with mu held.
func (s *Store) recompute() {
	if s.status != domain.StatusReady {
		s.derived = []domain.Product{}
		return
	}
	s.derived = Apply(s.source, s.criteria)
}

// cloneProducts copies ps together with their image lists.
func cloneProducts(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	for i, p := range ps {
		p.Images = slices.Clone(p.Images)
		out[i] = p
	}
	return out
}

func clone(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
