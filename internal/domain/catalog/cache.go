// internal/domain/catalog/cache.go
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/your-org/swiftcart/internal/pkg/notify"
)

// Cache holds the fetched catalog and a per-category memo of product lists.
// Lookups are read-mostly; the only mutation is filling a category slot the
// first time it is requested.
type Cache struct {
	source   Source
	notifier notify.Notifier

	mu         sync.RWMutex
	products   []Product
	categories []string
	byCategory map[string][]Product
}

// NewCache creates a catalog cache backed by the given source
func NewCache(source Source, notifier notify.Notifier) *Cache {
	return &Cache{
		source:     source,
		notifier:   notifier,
		byCategory: make(map[string][]Product),
	}
}

// Load fetches products and categories concurrently. Either fetch may fail
// independently without aborting the other; a failed fetch leaves the
// corresponding collection empty and publishes a reportable event. The
// returned error joins whatever failed and is safe to treat as non-fatal.
func (c *Cache) Load(ctx context.Context) error {
	var (
		wg          sync.WaitGroup
		products    []Product
		categories  []string
		productsErr error
		catsErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products, productsErr = c.source.Products(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, catsErr = c.source.Categories(ctx)
	}()
	wg.Wait()

	c.mu.Lock()
	if productsErr == nil {
		c.products = products
	}
	if catsErr == nil {
		c.categories = categories
	}
	c.mu.Unlock()

	if productsErr != nil {
		c.notifier.Publish(notify.Event{
			Type:    notify.EventCatalogLoadFailed,
			Payload: map[string]interface{}{"collection": "products", "reason": productsErr.Error()},
			At:      time.Now().UTC(),
		})
	}
	if catsErr != nil {
		c.notifier.Publish(notify.Event{
			Type:    notify.EventCatalogLoadFailed,
			Payload: map[string]interface{}{"collection": "categories", "reason": catsErr.Error()},
			At:      time.Now().UTC(),
		})
	}
	if productsErr == nil && catsErr == nil {
		c.notifier.Publish(notify.Event{
			Type: notify.EventCatalogLoaded,
			Payload: map[string]interface{}{
				"products":   len(products),
				"categories": len(categories),
			},
			At: time.Now().UTC(),
		})
	}

	return errors.Join(productsErr, catsErr)
}

// Products returns the loaded product list
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Product(nil), c.products...)
}

// Categories returns the loaded category names
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.categories...)
}

// Product looks up a loaded product by id
func (c *Cache) Product(id int) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductsForCategory returns the products for a category, fetching and
// memoizing the list on first access. The special category "all" returns the
// full product list. A fetch failure returns an empty slice and the error
// without poisoning the cache, so the next access retries.
func (c *Cache) ProductsForCategory(ctx context.Context, category string) ([]Product, error) {
	if category == CategoryAll {
		return c.Products(), nil
	}

	c.mu.RLock()
	cached, ok := c.byCategory[category]
	c.mu.RUnlock()
	if ok {
		return append([]Product(nil), cached...), nil
	}

	products, err := c.source.ProductsByCategory(ctx, category)
	if err != nil {
		c.notifier.Publish(notify.Event{
			Type:    notify.EventCatalogLoadFailed,
			Payload: map[string]interface{}{"collection": "category:" + category, "reason": err.Error()},
			At:      time.Now().UTC(),
		})
		return []Product{}, err
	}

	c.mu.Lock()
	c.byCategory[category] = products
	c.mu.Unlock()

	return append([]Product(nil), products...), nil
}
