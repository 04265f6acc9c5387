package httphandler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
)

// GET  v1/products                  (200 OK, 400 Bad request)
// PUT  v1/criteria/category JSON    (200 OK, 400, 422 Unprocessable entity)
// PUT  v1/criteria/price JSON       (200 OK, 400, 422)
// PUT  v1/criteria/sort JSON        (200 OK, 400, 422)
// POST v1/criteria form             (200 OK, 400, 415, 422)
// POST v1/catalog/reload            (200 OK, 502 Bad gateway)

type CatalogHandler struct {
	viewer  port.CatalogViewer
	setter  port.CriteriaSetter
	loader  port.CatalogLoader
	decoder *schema.Decoder
}

func RegisterCatalog(
	mux *http.ServeMux,
	viewer port.CatalogViewer,
	setter port.CriteriaSetter,
	loader port.CatalogLoader,
) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	h := CatalogHandler{viewer, setter, loader, decoder}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("PUT /v1/criteria/category", h.PutCategory)
	mux.HandleFunc("PUT /v1/criteria/price", h.PutPriceBounds)
	mux.HandleFunc("PUT /v1/criteria/sort", h.PutSort)
	mux.HandleFunc("POST /v1/criteria", h.PostCriteria)
	mux.HandleFunc("POST /v1/catalog/reload", h.PostReload)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	var pq PageQuery
	if err := h.decoder.Decode(&pq, r.URL.Query()); err != nil {
		badRequest(w, log, "invalid page query", err)
		return
	}

	h.writeView(w, log, http.StatusOK, pq)
}

func (h CatalogHandler) PutCategory(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PutCategory"
	log := slog.With("op", op)

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	h.setter.SetCategory(r.Context(), strings.TrimSpace(req.Category))
	h.writeView(w, log, http.StatusOK, PageQuery{})
}

func (h CatalogHandler) PutPriceBounds(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PutPriceBounds"
	log := slog.With("op", op)

	var req PriceBoundsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	err := h.setter.SetPriceBounds(r.Context(), req.Min, req.Max)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeView(w, log, http.StatusOK, PageQuery{})
}

func (h CatalogHandler) PutSort(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PutSort"
	log := slog.With("op", op)

	var req SortRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	err := h.setter.SetSort(
		r.Context(),
		domain.SortAttribute(req.Attribute),
		domain.SortDirection(req.Direction),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeView(w, log, http.StatusOK, PageQuery{})
}

// PostCriteria applies the whole filter form in one step.
func (h CatalogHandler) PostCriteria(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostCriteria"
	log := slog.With("op", op)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
		return
	}

	if err := r.ParseForm(); err != nil {
		badRequest(w, log, "invalid form data", err)
		return
	}

	var form CriteriaForm
	if err := h.decoder.Decode(&form, r.PostForm); err != nil {
		badRequest(w, log, "invalid form data", err)
		return
	}

	c, err := form.toDomain()
	if err != nil {
		badRequest(w, log, "invalid price bound", err)
		return
	}

	if err := h.setter.ApplyCriteria(r.Context(), c); err != nil {
		writeError(w, log, err)
		return
	}
	h.writeView(w, log, http.StatusOK, PageQuery{})
}

func (h CatalogHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostReload"
	log := slog.With("op", op)

	code := http.StatusOK
	if err := h.loader.LoadCatalog(r.Context()); err != nil {
		log.Error("failed to reload catalog", "err", err)
		code = http.StatusBadGateway
	}
	h.writeView(w, log, code, PageQuery{})
}

func (h CatalogHandler) writeView(
	w http.ResponseWriter, log *slog.Logger, code int, pq PageQuery,
) {
	v := h.viewer.CatalogView()
	observeView(v)
	writeJSON(w, log, code, toCatalogView(v, pq))
}

func (f CriteriaForm) toDomain() (domain.Criteria, error) {
	c := domain.DefaultCriteria()

	if category := strings.TrimSpace(f.Category); category != "" {
		c.Filter.Category = category
	}

	var err error
	if c.Filter.MinPrice, err = parseBound(f.MinPrice); err != nil {
		return domain.Criteria{}, fmt.Errorf("min_price: %w", err)
	}
	if c.Filter.MaxPrice, err = parseBound(f.MaxPrice); err != nil {
		return domain.Criteria{}, fmt.Errorf("max_price: %w", err)
	}

	if f.SortAttribute != "" {
		c.Sort.Attribute = domain.SortAttribute(f.SortAttribute)
	}
	if f.SortOrder != "" {
		c.Sort.Direction = domain.SortDirection(f.SortOrder)
	}
	return c, nil
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
