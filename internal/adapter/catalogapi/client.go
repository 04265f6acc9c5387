// Package catalogapi is the HTTP client of the remote catalog API.
package catalogapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/niksmo/catalog-review/internal/core/port"
	"github.com/niksmo/catalog-review/pkg/retry"
)

var (
	_ port.ProductsAPI = (*Client)(nil)
	_ port.ReviewsAPI  = (*Client)(nil)
)

const maxBodySize = 8 << 20

// An APIError is returned for unexpected response statuses.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf(
		"%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode,
	)
}

// Temporary reports whether the request may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	retryCfg retry.RetryConfig
}

func New(cfg Config) (Client, error) {
	const op = "catalogapi.New"

	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return Client{}, fmt.Errorf("%s: %w", op, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return Client{}, fmt.Errorf("%s: base url %q is not absolute", op, cfg.BaseURL)
	}

	return Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		retryCfg: retry.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			Backoff:     retry.ExponentialBackoff(cfg.RetryDelay),
			ShouldRetry: isTemporary,
		},
	}, nil
}

func (c Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	body, err := c.get(ctx, "/products", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := decodeProducts(body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode products: %w", op, err)
	}

	products := make([]domain.Product, len(ps))
	for i := range ps {
		products[i] = ps[i].toDomain()
	}
	return products, nil
}

func (c Client) GetProduct(
	ctx context.Context, id string,
) (domain.ProductDetails, error) {
	const op = "Client.GetProduct"

	body, err := c.get(ctx, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	var p productDetails
	if err := sonic.Unmarshal(body, &p); err != nil {
		return domain.ProductDetails{}, fmt.Errorf(
			"%s: failed to decode product: %w", op, err,
		)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p.toDomain(), nil
}

func (c Client) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	const op = "Client.CreateProduct"

	p, err := c.sendProduct(ctx, http.MethodPost, "/products", d)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c Client) UpdateProduct(
	ctx context.Context, id string, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	const op = "Client.UpdateProduct"

	path := "/products/" + url.PathEscape(id)
	p, err := c.sendProduct(ctx, http.MethodPatch, path, d)
	if err != nil {
		return domain.ProductDetails{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

func (c Client) DeleteProduct(ctx context.Context, id string) error {
	const op = "Client.DeleteProduct"

	path := "/products/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) ListReviews(
	ctx context.Context, productID string,
) ([]domain.Review, error) {
	const op = "Client.ListReviews"

	query := url.Values{"productId": {productID}}
	body, err := c.get(ctx, "/reviews", query)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Review{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rs, err := decodeReviews(body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode reviews: %w", op, err)
	}

	reviews := make([]domain.Review, len(rs))
	for i := range rs {
		reviews[i] = rs[i].toDomain()
	}
	return reviews, nil
}

func (c Client) PostReview(
	ctx context.Context, r domain.Review,
) (domain.Review, error) {
	const op = "Client.PostReview"

	payload, err := sonic.Marshal(toReviewPayload(r))
	if err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	body, err := c.do(ctx, http.MethodPost, "/reviews", nil, payload)
	if err != nil {
		return domain.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	posted := r
	if len(bytes.TrimSpace(body)) != 0 {
		var v review
		if err := sonic.Unmarshal(body, &v); err != nil {
			slog.Warn("unexpected review response body", "op", op, "err", err)
		} else if v.ID != "" {
			posted.ID = v.ID
		}
	}
	return posted, nil
}

func (c Client) sendProduct(
	ctx context.Context, method, path string, d domain.ProductDraft,
) (domain.ProductDetails, error) {
	payload, err := sonic.Marshal(toProductPayload(d))
	if err != nil {
		return domain.ProductDetails{}, err
	}

	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return domain.ProductDetails{}, err
	}

	var p productDetails
	if len(bytes.TrimSpace(body)) != 0 {
		if err := sonic.Unmarshal(body, &p); err != nil {
			return domain.ProductDetails{}, fmt.Errorf(
				"failed to decode product: %w", err,
			)
		}
	}
	if p.Name == "" {
		p.Name = d.Name
	}
	return p.toDomain(), nil
}

// get is retried on transport errors and temporary statuses.
func (c Client) get(
	ctx context.Context, path string, query url.Values,
) ([]byte, error) {
	return retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, path, query, nil)
	})
}

func (c Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload []byte,
) ([]byte, error) {
	log := slog.With("op", "Client.do", "method", method, "path", path)

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "err", err)
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warn("failed to close response body", "err", err)
		}
	}()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, &APIError{
			Method: method, Path: path, StatusCode: res.StatusCode,
		}
	}

	log.Debug("request done", "status", res.StatusCode, "nBytes", len(b))
	return b, nil
}

func isTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrNotFound) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
