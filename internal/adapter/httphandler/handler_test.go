package httphandler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/niksmo/catalog-review/internal/adapter/httphandler"
	"github.com/niksmo/catalog-review/internal/core/catalog"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockCatalogAPI) GetProduct(
	ctx context.Context, id string,
) (domain.ProductDetails, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ProductDetails), args.Error(1)
}

func (m *MockCatalogAPI) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.ProductDetails), args.Error(1)
}

func (m *MockCatalogAPI) UpdateProduct(
	ctx context.Context, id string, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	args := m.Called(ctx, id, d)
	return args.Get(0).(domain.ProductDetails), args.Error(1)
}

func (m *MockCatalogAPI) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogAPI) ListReviews(
	ctx context.Context, productID string,
) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	rs, _ := args.Get(0).([]domain.Review)
	return rs, args.Error(1)
}

func (m *MockCatalogAPI) PostReview(
	ctx context.Context, r domain.Review,
) (domain.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.Review), args.Error(1)
}

func products() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "Novel", Category: "Books", Price: 10, Rating: 4},
		{ID: "b", Name: "Atlas", Category: "Books", Price: 5, Rating: 5},
		{ID: "c", Name: "Robot", Category: "Toys", Price: 20, Rating: 3},
	}
}

// newTestHandler returns the full handler backed by a loaded store.
func newTestHandler(t *testing.T) (http.Handler, *MockCatalogAPI) {
	t.Helper()

	api := new(MockCatalogAPI)
	store := catalog.NewStore()
	store.Load(store.BeginLoad(), products())
	s := service.New(store, api, api, nil, nil)

	h := httphandler.NewHandler(
		httphandler.CatalogDeps{Viewer: s, Setter: s, Loader: s},
		httphandler.ProductsDeps{Manager: s, Poster: s},
	)
	return h, api
}

func serve(
	h http.Handler, method, target, contentType, body string,
) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) httphandler.CatalogView {
	t.Helper()
	var v httphandler.CatalogView
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func viewIDs(v httphandler.CatalogView) []string {
	out := make([]string, len(v.Products))
	for i, p := range v.Products {
		out[i] = p.ID
	}
	return out
}

const jsonType = "application/json"
const formType = "application/x-www-form-urlencoded"

func TestGetProducts(t *testing.T) {
	t.Run("DefaultView", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodGet, "/v1/products", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, jsonType, w.Header().Get("Content-Type"))

		v := decodeView(t, w)
		assert.Equal(t, "ready", v.Status)
		assert.False(t, v.NoMatches)
		assert.Empty(t, v.Error)
		assert.Equal(t, []string{"b", "a", "c"}, viewIDs(v))
		assert.Equal(t, "All", v.Criteria.Category)
		assert.Equal(t, "price", v.Criteria.SortAttribute)
		assert.Equal(t, "asc", v.Criteria.SortOrder)
	})

	t.Run("Paged", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodGet, "/v1/products?page=2&per_page=2", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, []string{"c"}, viewIDs(v))
		assert.Equal(t, httphandler.Page{
			Current: 2, Total: 2, HasPrev: true,
		}, v.Page)
	})

	t.Run("InvalidPageQuery", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodGet, "/v1/products?page=first", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPutCriteria(t *testing.T) {
	t.Run("Category", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/category",
			jsonType, `{"category":"Books"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"b", "a"}, viewIDs(decodeView(t, w)))
	})

	t.Run("AbsentCategory", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/category",
			jsonType, `{"category":"Garden"}`)

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.True(t, v.NoMatches)
		assert.Empty(t, v.Products)
	})

	t.Run("PriceAndSort", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/price",
			jsonType, `{"min":8}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = serve(h, http.MethodPut, "/v1/criteria/sort",
			jsonType, `{"attribute":"price","direction":"desc"}`)
		require.Equal(t, http.StatusOK, w.Code)

		v := decodeView(t, w)
		assert.Equal(t, []string{"c", "a"}, viewIDs(v))
		require.NotNil(t, v.Criteria.MinPrice)
		assert.Equal(t, 8.0, *v.Criteria.MinPrice)
		assert.Nil(t, v.Criteria.MaxPrice)
	})

	t.Run("InvertedPriceRange", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/price",
			jsonType, `{"min":10,"max":5}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp httphandler.ErrorResponse
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.Error, "validation failed"))

		v := decodeView(t, serve(h, http.MethodGet, "/v1/products", "", ""))
		assert.Nil(t, v.Criteria.MinPrice)
		assert.Len(t, v.Products, 3)
	})

	t.Run("UnknownSort", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/sort",
			jsonType, `{"attribute":"name","direction":"asc"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/category", jsonType, `{"category":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPut, "/v1/criteria/category", "text/plain", "Books")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestPostCriteria(t *testing.T) {
	t.Run("Apply", func(t *testing.T) {
		h, _ := newTestHandler(t)
		form := url.Values{
			"category":       {"All"},
			"min_price":      {"8"},
			"max_price":      {""},
			"sort_attribute": {"price"},
			"sort_order":     {"desc"},
		}
		w := serve(h, http.MethodPost, "/v1/criteria", formType, form.Encode())

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"c", "a"}, viewIDs(decodeView(t, w)))
	})

	t.Run("Defaults", func(t *testing.T) {
		h, _ := newTestHandler(t)
		form := url.Values{"category": {"Books"}}
		w := serve(h, http.MethodPost, "/v1/criteria", formType, form.Encode())

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, []string{"b", "a"}, viewIDs(v))
		assert.Equal(t, "price", v.Criteria.SortAttribute)
	})

	t.Run("InvertedPriceRange", func(t *testing.T) {
		h, _ := newTestHandler(t)
		form := url.Values{"min_price": {"10"}, "max_price": {"1"}}
		w := serve(h, http.MethodPost, "/v1/criteria", formType, form.Encode())
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("NotANumber", func(t *testing.T) {
		h, _ := newTestHandler(t)
		form := url.Values{"min_price": {"cheap"}}
		w := serve(h, http.MethodPost, "/v1/criteria", formType, form.Encode())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("JSONBody", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := serve(h, http.MethodPost, "/v1/criteria", jsonType, `{"category":"Books"}`)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestPostReload(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		h, api := newTestHandler(t)
		api.On("ListProducts", mock.Anything).Return(products()[:1], nil)

		w := serve(h, http.MethodPost, "/v1/catalog/reload", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, "ready", v.Status)
		assert.Equal(t, []string{"a"}, viewIDs(v))
	})

	t.Run("Failure", func(t *testing.T) {
		h, api := newTestHandler(t)
		api.On("ListProducts", mock.Anything).Return(nil, errors.New("dial tcp"))

		w := serve(h, http.MethodPost, "/v1/catalog/reload", "", "")
		require.Equal(t, http.StatusBadGateway, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, "error", v.Status)
		assert.Equal(t, "error loading catalog", v.Error)
		assert.NotNil(t, v.Products)
		assert.Empty(t, v.Products)
		assert.False(t, v.NoMatches)
	})
}

func TestMetricsRoute(t *testing.T) {
	h, _ := newTestHandler(t)
	serve(h, http.MethodGet, "/v1/products", "", "")

	w := serve(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "catalog_http_requests_total")
	assert.Contains(t, body, "catalog_view_products")
}
