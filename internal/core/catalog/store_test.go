package catalog_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/niksmo/catalog-review/internal/core/catalog"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyStore(t *testing.T) *catalog.Store {
	t.Helper()
	s := catalog.NewStore()
	s.Load(s.BeginLoad(), collection())
	return s
}

func TestStoreInitial(t *testing.T) {
	v := catalog.NewStore().View()

	assert.Equal(t, domain.StatusLoading, v.Status)
	assert.NotNil(t, v.Products)
	assert.Empty(t, v.Products)
	assert.Equal(t, domain.DefaultCriteria(), v.Criteria)
	assert.NoError(t, v.Err)
}

func TestStoreLoad(t *testing.T) {
	t.Run("DefaultCriteria", func(t *testing.T) {
		v := readyStore(t).View()
		assert.Equal(t, domain.StatusReady, v.Status)
		assert.Equal(t, []string{"b", "a", "c"}, ids(v.Products))
	})

	t.Run("EmptyCollectionIsReady", func(t *testing.T) {
		s := catalog.NewStore()
		s.Load(s.BeginLoad(), nil)

		v := s.View()
		assert.Equal(t, domain.StatusReady, v.Status)
		assert.NotNil(t, v.Products)
		assert.Empty(t, v.Products)
		assert.True(t, v.NoMatches())
		assert.NoError(t, v.Err)
	})

	t.Run("KeepsCriteria", func(t *testing.T) {
		s := readyStore(t)
		s.SetCategory("Toys")

		s.Load(s.BeginLoad(), []domain.Product{
			{ID: "d", Category: "Toys", Price: 1},
			{ID: "e", Category: "Books", Price: 2},
		})

		v := s.View()
		assert.Equal(t, "Toys", v.Criteria.Filter.Category)
		assert.Equal(t, []string{"d"}, ids(v.Products))
	})

	t.Run("AbsentCategory", func(t *testing.T) {
		s := catalog.NewStore()
		s.SetCategory("Garden")
		s.Load(s.BeginLoad(), collection())

		v := s.View()
		assert.Equal(t, domain.StatusReady, v.Status)
		assert.Empty(t, v.Products)
	})

	t.Run("CopiesInput", func(t *testing.T) {
		ps := collection()
		s := catalog.NewStore()
		s.Load(s.BeginLoad(), ps)
		ps[0].Price = 1000

		assert.Equal(t, []string{"b", "a", "c"}, ids(s.View().Products))
	})
}

func TestStoreFail(t *testing.T) {
	s := readyStore(t)
	fetchErr := errors.New("connection refused")

	s.Fail(s.BeginLoad(), fetchErr)

	v := s.View()
	assert.Equal(t, domain.StatusError, v.Status)
	assert.NotNil(t, v.Products)
	assert.Empty(t, v.Products)
	assert.ErrorIs(t, v.Err, fetchErr)
	assert.False(t, v.NoMatches())

	s.SetCategory("Books")
	assert.Empty(t, s.View().Products)
}

func TestStoreBeginLoad(t *testing.T) {
	s := readyStore(t)
	s.BeginLoad()

	v := s.View()
	assert.Equal(t, domain.StatusLoading, v.Status)
	assert.Empty(t, v.Products)

	s.Load(s.BeginLoad(), collection())
	assert.Equal(t, domain.StatusReady, s.View().Status)
}

func TestStoreSupersededLoad(t *testing.T) {
	t.Run("OlderLoadDropped", func(t *testing.T) {
		s := catalog.NewStore()
		older := s.BeginLoad()
		newer := s.BeginLoad()

		require.True(t, s.Load(newer, collection()[:2]))
		assert.False(t, s.Load(older, collection()))

		v := s.View()
		assert.Equal(t, domain.StatusReady, v.Status)
		assert.Len(t, v.Products, 2)
	})

	t.Run("OlderFailureDropped", func(t *testing.T) {
		s := catalog.NewStore()
		older := s.BeginLoad()
		newer := s.BeginLoad()

		require.True(t, s.Load(newer, collection()))
		assert.False(t, s.Fail(older, errors.New("timeout")))

		v := s.View()
		assert.Equal(t, domain.StatusReady, v.Status)
		assert.NoError(t, v.Err)
		assert.Len(t, v.Products, 3)
	})

	t.Run("PendingNewerLoad", func(t *testing.T) {
		s := catalog.NewStore()
		older := s.BeginLoad()
		s.BeginLoad()

		assert.False(t, s.Load(older, collection()))
		assert.Equal(t, domain.StatusLoading, s.View().Status)
	})
}

func TestStoreSetCategory(t *testing.T) {
	s := readyStore(t)

	s.SetCategory("Books")
	assert.Equal(t, []string{"b", "a"}, ids(s.View().Products))

	s.SetCategory("All")
	assert.Equal(t, []string{"b", "a", "c"}, ids(s.View().Products))
}

func TestStoreSetPriceBounds(t *testing.T) {
	t.Run("Apply", func(t *testing.T) {
		s := readyStore(t)
		require.NoError(t, s.SetPriceBounds(domain.Bound(8), nil))
		require.NoError(t, s.SetSort(domain.SortByPrice, domain.Descending))

		assert.Equal(t, []string{"c", "a"}, ids(s.View().Products))
	})

	t.Run("RejectsInverted", func(t *testing.T) {
		s := readyStore(t)
		require.NoError(t, s.SetPriceBounds(domain.Bound(1), domain.Bound(10)))
		before := s.View()

		err := s.SetPriceBounds(domain.Bound(10), domain.Bound(5))
		require.ErrorIs(t, err, domain.ErrInvalidPriceRange)

		after := s.View()
		assert.Equal(t, before.Criteria, after.Criteria)
		assert.Equal(t, ids(before.Products), ids(after.Products))
	})

	t.Run("Clear", func(t *testing.T) {
		s := readyStore(t)
		require.NoError(t, s.SetPriceBounds(domain.Bound(100), nil))
		assert.Empty(t, s.View().Products)

		require.NoError(t, s.SetPriceBounds(nil, nil))
		assert.Len(t, s.View().Products, 3)
	})

	t.Run("CopiesBounds", func(t *testing.T) {
		s := readyStore(t)
		min := domain.Bound(8)
		require.NoError(t, s.SetPriceBounds(min, nil))
		*min = 0

		assert.Equal(t, 8.0, *s.View().Criteria.Filter.MinPrice)
	})
}

func TestStoreSetSort(t *testing.T) {
	s := readyStore(t)

	require.NoError(t, s.SetSort(domain.SortByRating, domain.Descending))
	assert.Equal(t, []string{"b", "a", "c"}, ids(s.View().Products))

	err := s.SetSort("title", domain.Ascending)
	require.ErrorIs(t, err, domain.ErrUnknownSortAttribute)

	err = s.SetSort(domain.SortByPrice, "sideways")
	require.ErrorIs(t, err, domain.ErrUnknownSortDirection)

	v := s.View()
	assert.Equal(t, domain.SortByRating, v.Criteria.Sort.Attribute)
	assert.Equal(t, domain.Descending, v.Criteria.Sort.Direction)
}

func TestStoreApply(t *testing.T) {
	s := readyStore(t)

	c := criteria("Books", nil, domain.Bound(7), domain.SortByRating, domain.Ascending)
	require.NoError(t, s.Apply(c))
	assert.Equal(t, []string{"b"}, ids(s.View().Products))

	bad := criteria("Toys", domain.Bound(9), domain.Bound(1), domain.SortByPrice, domain.Ascending)
	require.ErrorIs(t, s.Apply(bad), domain.ErrInvalidPriceRange)
	assert.Equal(t, "Books", s.View().Criteria.Filter.Category)
}

func TestStoreViewIsACopy(t *testing.T) {
	s := readyStore(t)
	require.NoError(t, s.SetPriceBounds(domain.Bound(1), nil))

	v := s.View()
	v.Products[0].ID = "mutated"
	*v.Criteria.Filter.MinPrice = 0

	after := s.View()
	assert.Equal(t, "b", after.Products[0].ID)
	assert.Equal(t, 1.0, *after.Criteria.Filter.MinPrice)
}

func TestStoreImagesAreCopied(t *testing.T) {
	ps := []domain.Product{
		{ID: "a", Price: 1, Images: []string{"https://img/a.png"}},
	}
	s := catalog.NewStore()
	s.Load(s.BeginLoad(), ps)

	ps[0].Images[0] = "input-mutated"
	v := s.View()
	require.Len(t, v.Products, 1)
	assert.Equal(t, []string{"https://img/a.png"}, v.Products[0].Images)

	v.Products[0].Images[0] = "view-mutated"
	assert.Equal(t, []string{"https://img/a.png"}, s.View().Products[0].Images)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := readyStore(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				s.SetCategory("Books")
			} else {
				_ = s.SetSort(domain.SortByRating, domain.Descending)
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.View()
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.StatusReady, s.View().Status)
}
