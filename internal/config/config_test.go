package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SwiftCart Storefront", cfg.App.Name)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Catalog.BaseURL)
	assert.Equal(t, "cart:session", cfg.Cart.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Cart.TTL)
	assert.True(t, cfg.Pricing.ShippingFlat.Equal(decimal.RequireFromString("5.99")))
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.10")))
	assert.Equal(t, 2*time.Second, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, 4, cfg.Checkout.DeliveryDays)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICING_SHIPPING_FLAT", "0")
	t.Setenv("PRICING_TAX_RATE", "0.25")
	t.Setenv("CHECKOUT_DELIVERY_DAYS", "7")
	t.Setenv("CART_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Pricing.ShippingFlat.IsZero())
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, 7, cfg.Checkout.DeliveryDays)
	assert.Equal(t, time.Hour, cfg.Cart.TTL)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("PRICING_TAX_RATE", "not-a-number")
	t.Setenv("CHECKOUT_DELIVERY_DAYS", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.10")))
	assert.Equal(t, 4, cfg.Checkout.DeliveryDays)
}

func TestValidate_RejectsNegativePricing(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Pricing.TaxRate = decimal.RequireFromString("-0.10")
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsZeroDeliveryDays(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Checkout.DeliveryDays = 0
	assert.Error(t, cfg.Validate())
}

func TestGetRedisAddr(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}
