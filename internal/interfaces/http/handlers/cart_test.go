package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/catalog"
	"github.com/your-org/swiftcart/internal/domain/pricing"
	"github.com/your-org/swiftcart/internal/pkg/notify"
	"github.com/your-org/swiftcart/internal/session"
)

// stubSource serves a fixed catalog without network access
type stubSource struct{}

func (stubSource) Products(ctx context.Context) ([]catalog.Product, error) {
	return []catalog.Product{
		{ID: 1, Title: "Widget", Price: decimal.RequireFromString("10.00"), Category: "electronics"},
		{ID: 2, Title: "Gadget", Price: decimal.RequireFromString("5.00"), Category: "electronics"},
	}, nil
}

func (stubSource) Categories(ctx context.Context) ([]string, error) {
	return []string{"electronics"}, nil
}

func (stubSource) ProductsByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	products, _ := stubSource{}.Products(ctx)
	var out []catalog.Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Cart: config.CartConfig{KeyPrefix: "cart:session", TTL: time.Hour},
		Pricing: config.PricingConfig{
			ShippingFlat: decimal.RequireFromString("5.99"),
			TaxRate:      decimal.RequireFromString("0.10"),
		},
		Checkout: config.CheckoutConfig{ProcessingDelay: 0, DeliveryDays: 4},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cache := catalog.NewCache(stubSource{}, notify.NopNotifier{})
	require.NoError(t, cache.Load(context.Background()))

	sessions := session.NewManager(cfg, client, pricing.NewCalculator(cfg), notify.NopNotifier{}, logger)

	cartHandler := NewCartHandler(sessions, cache)
	checkoutHandler := NewCheckoutHandler(sessions)
	catalogHandler := NewCatalogHandler(cache)

	router := gin.New()
	router.GET("/products", catalogHandler.GetProducts)
	router.GET("/products/:id", catalogHandler.GetProduct)
	router.GET("/cart", cartHandler.GetCart)
	router.DELETE("/cart", cartHandler.ClearCart)
	router.GET("/cart/count", cartHandler.GetCartCount)
	router.POST("/cart/items", cartHandler.AddToCart)
	router.PUT("/cart/items/:id", cartHandler.UpdateCartItem)
	router.DELETE("/cart/items/:id", cartHandler.RemoveFromCart)
	router.POST("/checkout", checkoutHandler.OpenCheckout)
	router.DELETE("/checkout", checkoutHandler.CloseCheckout)
	router.POST("/checkout/order", checkoutHandler.PlaceOrder)
	router.POST("/checkout/ack", checkoutHandler.AckSuccess)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "test-session"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func addToCart(t *testing.T, router *gin.Engine, productID, quantity int) {
	t.Helper()
	w, _ := doJSON(t, router, http.MethodPost, "/cart/items",
		gin.H{"product_id": productID, "quantity": quantity})
	require.Equal(t, http.StatusOK, w.Code)
}

func validOrderBody() gin.H {
	return gin.H{
		"full_name":      "Ada Lovelace",
		"email":          "ada@example.com",
		"phone":          "+1 555 0100",
		"address":        "1 Analytical Way",
		"city":           "London",
		"zip":            "10001",
		"payment_method": "credit",
		"card_number":    "4111111111111111",
		"card_expiry":    "12/30",
		"card_cvv":       "123",
		"card_holder":    "Ada Lovelace",
	}
}

func TestGetProducts_FiltersByCategory(t *testing.T) {
	router := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/products?category=electronics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestGetProduct_UnknownIDReturns404(t *testing.T) {
	router := setupTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/products/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCart_UnknownProductReturns404(t *testing.T) {
	router := setupTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/cart/items",
		gin.H{"product_id": 99, "quantity": 1})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints_AddUpdateRemove(t *testing.T) {
	router := setupTestRouter(t)

	addToCart(t, router, 1, 2)
	addToCart(t, router, 1, 3)

	w, body := doJSON(t, router, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(5), data["item_count"])
	assert.Len(t, data["items"].([]interface{}), 1)

	w, body = doJSON(t, router, http.MethodPut, "/cart/items/1", gin.H{"quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["item_count"])

	w, _ = doJSON(t, router, http.MethodPut, "/cart/items/42", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = doJSON(t, router, http.MethodDelete, "/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["item_count"])
}

func TestGetCartCount(t *testing.T) {
	router := setupTestRouter(t)

	addToCart(t, router, 1, 2)
	addToCart(t, router, 2, 1)

	w, body := doJSON(t, router, http.MethodGet, "/cart/count", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])
}

func TestOpenCheckout_EmptyCartReturns400(t *testing.T) {
	router := setupTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/checkout", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", body["error"])
}

func TestOpenCheckout_ReturnsTotals(t *testing.T) {
	router := setupTestRouter(t)
	addToCart(t, router, 1, 2)

	w, body := doJSON(t, router, http.MethodPost, "/checkout", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "open", data["state"])
	assert.Equal(t, "credit", data["payment_method"])

	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "20", totals["subtotal"])
	assert.Equal(t, "27.99", totals["total"])
}

func TestPlaceOrder_ValidationErrorsAreFieldLevel(t *testing.T) {
	router := setupTestRouter(t)
	addToCart(t, router, 1, 1)

	w, _ := doJSON(t, router, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	order := validOrderBody()
	order["email"] = "nope"
	delete(order, "card_number")

	w, body := doJSON(t, router, http.MethodPost, "/checkout/order", order)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := body["validation_errors"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "card_number")
}

func TestCheckoutFlow_OrderPlacedAndCartCleared(t *testing.T) {
	router := setupTestRouter(t)
	addToCart(t, router, 1, 2)
	addToCart(t, router, 2, 1)

	w, _ := doJSON(t, router, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(t, router, http.MethodPost, "/checkout/order", validOrderBody())
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Regexp(t, `^SWIFT[0-9]{6}$`, data["order_number"])
	assert.Len(t, data["lines"].([]interface{}), 2)

	w, body = doJSON(t, router, http.MethodGet, "/cart/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["data"].(map[string]interface{})["count"])

	w, body = doJSON(t, router, http.MethodPost, "/checkout/ack", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", body["data"].(map[string]interface{})["state"])
}
