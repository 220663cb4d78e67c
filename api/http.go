// Package api provides backends implementing domain.ProductAPI: an HTTP
// client for the REST backend plus local memory and file backends used by
// tests and offline runs.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stockctl/domain"
	"stockctl/query"
)

// Client talks to the product-inventory REST backend. One base URL serves
// every endpoint, including the stock toggles.
type Client struct {
	base *url.URL
	hc   *http.Client
	log  *slog.Logger
}

// compile-time assertion that Client implements domain.ProductAPI
var _ domain.ProductAPI = (*Client)(nil)

// NewClient constructs a Client for the given base URL, e.g.
// "http://localhost:8080". A zero timeout leaves requests bounded only by
// their context.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host required", baseURL)
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
		log:  slog.Default(),
	}, nil
}

// errorBody is the shape the backend's exception handler answers with.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	c.log.Debug("request done",
		"method", method, "path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Message != "" {
				msg = eb.Message
			} else if eb.Error != "" {
				msg = eb.Error
			}
		}
		return domain.NewAPIError(resp.StatusCode, msg)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: malformed response: %w", method, path, err)
	}
	return nil
}

// notFoundAsProduct converts a 404 APIError into the typed not-found error.
func notFoundAsProduct(err error, id int64) error {
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
		return domain.NewProductNotFoundError(id)
	}
	return err
}

func (c *Client) ListProducts(ctx context.Context, params query.Params) (domain.PaginatedProducts, error) {
	var page domain.PaginatedProducts
	if err := c.do(ctx, http.MethodGet, "/products", params.Values(), nil, &page); err != nil {
		return domain.PaginatedProducts{}, err
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodGet, "/products/"+formatID(id), nil, nil, &p)
	if err != nil {
		return domain.Product{}, notFoundAsProduct(err, id)
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, req, &p); err != nil {
		return domain.Product{}, err
	}
	c.log.Info("product created", "product_id", p.ID)
	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodPut, "/products/"+formatID(id), nil, req, &p)
	if err != nil {
		return domain.Product{}, notFoundAsProduct(err, id)
	}
	c.log.Info("product updated", "product_id", id)
	return p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodDelete, "/products/"+formatID(id), nil, nil, &p)
	if err != nil {
		return domain.Product{}, notFoundAsProduct(err, id)
	}
	c.log.Info("product deleted", "product_id", id)
	return p, nil
}

func (c *Client) SetOutOfStock(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodPut, "/products/"+formatID(id)+"/outofstock", nil, nil, &p)
	if err != nil {
		return domain.Product{}, notFoundAsProduct(err, id)
	}
	return p, nil
}

func (c *Client) SetInStock(ctx context.Context, id int64, quantity int) (domain.Product, error) {
	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	var p domain.Product
	err := c.do(ctx, http.MethodPut, "/products/"+formatID(id)+"/instock", q, nil, &p)
	if err != nil {
		return domain.Product{}, notFoundAsProduct(err, id)
	}
	return p, nil
}

func (c *Client) Metrics(ctx context.Context) ([]domain.Metric, error) {
	var metrics []domain.Metric
	if err := c.do(ctx, http.MethodGet, "/products/metrics", nil, nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) Category(ctx context.Context, id int64) (domain.Category, error) {
	var cat domain.Category
	err := c.do(ctx, http.MethodGet, "/categories/"+formatID(id), nil, nil, &cat)
	if err != nil {
		return domain.Category{}, err
	}
	return cat, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
