package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/cart"
)

func testCalculator() *Calculator {
	cfg := &config.Config{
		Pricing: config.PricingConfig{
			ShippingFlat: decimal.RequireFromString("5.99"),
			TaxRate:      decimal.RequireFromString("0.10"),
		},
	}
	return NewCalculator(cfg)
}

func line(productID int, price string, quantity int) cart.Line {
	return cart.Line{
		ProductID: productID,
		Price:     decimal.RequireFromString(price),
		Quantity:  quantity,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"expected %s, got %s", want, got)
}

func TestComputeTotals(t *testing.T) {
	calc := testCalculator()

	totals := calc.ComputeTotals([]cart.Line{
		line(1, "10.00", 2),
		line(2, "5.00", 1),
	})

	assertDecimal(t, "25.00", totals.Subtotal)
	assertDecimal(t, "5.99", totals.Shipping)
	assertDecimal(t, "2.50", totals.Tax)
	assertDecimal(t, "33.49", totals.Total)
}

func TestComputeTotals_EmptyCartStillChargesShipping(t *testing.T) {
	calc := testCalculator()

	totals := calc.ComputeTotals(nil)

	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "5.99", totals.Shipping)
	assertDecimal(t, "0", totals.Tax)
	assertDecimal(t, "5.99", totals.Total)
}

func TestComputeTotals_TaxRoundsToTwoPlaces(t *testing.T) {
	calc := testCalculator()

	// 3 * 0.33 = 0.99, tax = 0.099 -> 0.10
	totals := calc.ComputeTotals([]cart.Line{line(1, "0.33", 3)})

	assertDecimal(t, "0.99", totals.Subtotal)
	assertDecimal(t, "0.10", totals.Tax)
	assertDecimal(t, "7.08", totals.Total)
}

func TestComputeTotals_NoFloatDrift(t *testing.T) {
	calc := testCalculator()

	// 0.1 + 0.2 style additions stay exact under decimal arithmetic
	totals := calc.ComputeTotals([]cart.Line{
		line(1, "0.10", 1),
		line(2, "0.20", 1),
	})

	assertDecimal(t, "0.30", totals.Subtotal)
	assertDecimal(t, "0.03", totals.Tax)
}

func TestComputeTotals_IsPure(t *testing.T) {
	calc := testCalculator()
	lines := []cart.Line{line(1, "19.99", 3)}

	first := calc.ComputeTotals(lines)
	second := calc.ComputeTotals(lines)

	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, 3, lines[0].Quantity)
}
