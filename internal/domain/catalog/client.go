// internal/domain/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/your-org/swiftcart/internal/config"
)

// ErrCatalogUnavailable indicates the upstream catalog could not be reached
// or returned an unusable response. It is reportable and never fatal; the
// affected collection is simply left empty.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Source fetches catalog data from the upstream API
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
}

// Client fetches products and categories from a fakestore-style catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Catalog.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Catalog.RequestTimeout,
		},
	}
}

// Products retrieves the full product list
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories retrieves the category name list
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ProductsByCategory retrieves the products belonging to a single category
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var products []Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request for %s: %v", ErrCatalogUnavailable, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrCatalogUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetch %s: unexpected status %d", ErrCatalogUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCatalogUnavailable, path, err)
	}

	return nil
}
