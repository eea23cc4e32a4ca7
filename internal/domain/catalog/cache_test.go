package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/pkg/notify"
)

const productsJSON = `[
	{"id": 1, "title": "Fjallraven Backpack", "price": 109.95, "category": "men's clothing",
	 "image": "https://img.example/1.jpg", "rating": {"rate": 3.9, "count": 120}},
	{"id": 2, "title": "Mens Casual T-Shirt", "price": 22.3, "category": "men's clothing",
	 "image": "https://img.example/2.jpg", "rating": {"rate": 4.1, "count": 259}},
	{"id": 5, "title": "Silver Dragon Bracelet", "price": 695, "category": "jewelery",
	 "image": "https://img.example/5.jpg", "rating": {"rate": 4.6, "count": 400}}
]`

const categoriesJSON = `["electronics", "jewelery", "men's clothing", "women's clothing"]`

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Publish(event notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) byType(t notify.EventType) []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// upstream is a fakestore-style API with per-endpoint failure toggles and
// fetch counters
type upstream struct {
	server *httptest.Server

	failProducts   atomic.Bool
	failCategories atomic.Bool
	failCategory   atomic.Bool

	productFetches  atomic.Int64
	categoryFetches atomic.Int64
}

func newUpstream(t *testing.T) *upstream {
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/products":
			u.productFetches.Add(1)
			if u.failProducts.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(productsJSON))
		case r.URL.Path == "/products/categories":
			if u.failCategories.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(categoriesJSON))
		case r.URL.Path == "/products/category/jewelery":
			u.categoryFetches.Add(1)
			if u.failCategory.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`[{"id": 5, "title": "Silver Dragon Bracelet", "price": 695,
				"category": "jewelery", "image": "https://img.example/5.jpg",
				"rating": {"rate": 4.6, "count": 400}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(u.server.Close)
	return u
}

func setupTestCache(t *testing.T) (*Cache, *upstream, *recordingNotifier) {
	u := newUpstream(t)
	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			BaseURL:        u.server.URL,
			RequestTimeout: 5 * time.Second,
		},
	}
	notifier := &recordingNotifier{}
	return NewCache(NewClient(cfg), notifier), u, notifier
}

func TestLoad_PopulatesProductsAndCategories(t *testing.T) {
	cache, _, notifier := setupTestCache(t)

	require.NoError(t, cache.Load(context.Background()))

	products := cache.Products()
	require.Len(t, products, 3)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("109.95")))

	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing", "women's clothing"},
		cache.Categories())
	assert.Len(t, notifier.byType(notify.EventCatalogLoaded), 1)
}

func TestLoad_ProductFailureLeavesCategoriesIntact(t *testing.T) {
	cache, u, notifier := setupTestCache(t)
	u.failProducts.Store(true)

	err := cache.Load(context.Background())

	require.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Empty(t, cache.Products())
	assert.Len(t, cache.Categories(), 4)

	failures := notifier.byType(notify.EventCatalogLoadFailed)
	require.Len(t, failures, 1)
	assert.Equal(t, "products", failures[0].Payload["collection"])
	assert.Empty(t, notifier.byType(notify.EventCatalogLoaded))
}

func TestLoad_BothFailuresAreJoined(t *testing.T) {
	cache, u, notifier := setupTestCache(t)
	u.failProducts.Store(true)
	u.failCategories.Store(true)

	err := cache.Load(context.Background())

	require.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Len(t, notifier.byType(notify.EventCatalogLoadFailed), 2)
}

func TestLoad_RetryAfterFailureRepopulates(t *testing.T) {
	cache, u, _ := setupTestCache(t)
	u.failProducts.Store(true)
	require.Error(t, cache.Load(context.Background()))

	u.failProducts.Store(false)
	require.NoError(t, cache.Load(context.Background()))

	assert.Len(t, cache.Products(), 3)
}

func TestProduct_Lookup(t *testing.T) {
	cache, _, _ := setupTestCache(t)
	require.NoError(t, cache.Load(context.Background()))

	product, ok := cache.Product(2)
	require.True(t, ok)
	assert.Equal(t, "Mens Casual T-Shirt", product.Title)

	_, ok = cache.Product(99)
	assert.False(t, ok)
}

func TestProductsForCategory_AllReturnsFullList(t *testing.T) {
	cache, u, _ := setupTestCache(t)
	require.NoError(t, cache.Load(context.Background()))

	products, err := cache.ProductsForCategory(context.Background(), CategoryAll)

	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, int64(0), u.categoryFetches.Load())
}

func TestProductsForCategory_MemoizesOnSuccess(t *testing.T) {
	cache, u, _ := setupTestCache(t)

	first, err := cache.ProductsForCategory(context.Background(), "jewelery")
	require.NoError(t, err)
	second, err := cache.ProductsForCategory(context.Background(), "jewelery")
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, int64(1), u.categoryFetches.Load(), "second access must hit the memo")
}

func TestProductsForCategory_FailureIsNotCached(t *testing.T) {
	cache, u, _ := setupTestCache(t)
	u.failCategory.Store(true)

	products, err := cache.ProductsForCategory(context.Background(), "jewelery")
	require.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Empty(t, products)

	// Next access retries the upstream instead of serving the failure
	u.failCategory.Store(false)
	products, err = cache.ProductsForCategory(context.Background(), "jewelery")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(2), u.categoryFetches.Load())
}
