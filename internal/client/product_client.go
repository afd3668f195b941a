// Package client holds HTTP clients for sibling services.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrProductNotFound is returned when the inventory service answers 404.
var ErrProductNotFound = errors.New("product not found")

// Product mirrors the inventory service's product representation.  Only
// ID and Stock are relied upon; the rest is carried for callers that want
// to display it.  Timestamps are kept as the raw strings the inventory
// service sends (local date-times without a zone).
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Live        bool    `json:"live"`
	Stock       *int    `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ProductClient calls the inventory service:
//
//	GET /products/{id}
//	PUT /products/{id}/reduce-stock?quantity=N
type ProductClient struct {
	baseURL string
	http    *http.Client
}

// NewProductClient builds a client rooted at baseURL (e.g.
// http://localhost:8082/api).  A zero timeout leaves requests bounded only
// by the caller's context.
func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetProduct fetches one product.  A 404 yields ErrProductNotFound; any
// other non-2xx status or transport failure is returned as a plain error.
func (c *ProductClient) GetProduct(ctx context.Context, id int64) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if resp.StatusCode/100 != 2 {
		return nil, statusError("get product", id, resp)
	}
	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", id, err)
	}
	return &p, nil
}

// ReduceStock asks the inventory service to decrement stock by quantity.
func (c *ProductClient) ReduceStock(ctx context.Context, id int64, quantity int) error {
	u := c.productURL(id) + "/reduce-stock?" + url.Values{"quantity": {strconv.Itoa(quantity)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reduce stock %d: %w", id, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if resp.StatusCode/100 != 2 {
		return statusError("reduce stock", id, resp)
	}
	return nil
}

func (c *ProductClient) productURL(id int64) string {
	return c.baseURL + "/products/" + strconv.FormatInt(id, 10)
}

func statusError(op string, id int64, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %d: inventory responded %d: %s", op, id, resp.StatusCode, strings.TrimSpace(string(body)))
}
