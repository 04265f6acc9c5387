package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
)

// GET    v1/products/{id}              (200 OK, 404 Not found, 502)
// POST   v1/products JSON              (201 Created, 400, 422, 502)
// PATCH  v1/products/{id} JSON         (200 OK, 400, 404, 422, 502)
// DELETE v1/products/{id}              (204 No content, 404, 502)
// POST   v1/products/{id}/reviews JSON (201 Created, 400, 422, 502)

type ProductsHandler struct {
	manager port.ProductsManager
	poster  port.ReviewPoster
}

func RegisterProducts(
	mux *http.ServeMux, manager port.ProductsManager, poster port.ReviewPoster,
) {
	h := ProductsHandler{manager, poster}
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /v1/products", h.PostProduct)
	mux.HandleFunc("PATCH /v1/products/{id}", h.PatchProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", h.DeleteProduct)
	mux.HandleFunc("POST /v1/products/{id}/reviews", h.PostReview)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	id := r.PathValue("id")
	log := slog.With("op", op, "productID", id)

	page, err := h.manager.ProductPage(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, toProductPage(page))
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var draft ProductDraft
	if err := decodeJSON(r, &draft); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	p, err := h.manager.CreateProduct(r.Context(), draft.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toProductDetails(p))
	log.Info("created", "productID", p.ID)
}

func (h ProductsHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PatchProduct"
	id := r.PathValue("id")
	log := slog.With("op", op, "productID", id)

	var draft ProductDraft
	if err := decodeJSON(r, &draft); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	p, err := h.manager.UpdateProduct(r.Context(), id, draft.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, toProductDetails(p))
	log.Info("updated")
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	id := r.PathValue("id")
	log := slog.With("op", op, "productID", id)

	if err := h.manager.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("deleted")
}

func (h ProductsHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostReview"
	id := r.PathValue("id")
	log := slog.With("op", op, "productID", id)

	var req Review
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, log, "invalid JSON data", err)
		return
	}

	review, err := h.poster.PostReview(r.Context(), domain.Review{
		ProductID:    id,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, toReview(review))
	log.Info("review posted", "reviewID", review.ID)
}
