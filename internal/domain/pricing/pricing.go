// internal/domain/pricing/pricing.go
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/cart"
)

// Totals is the pricing breakdown derived from a cart snapshot
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Calculator derives checkout totals from cart lines. It is pure: calling it
// never mutates the cart and repeated calls yield the same result.
type Calculator struct {
	shippingFlat decimal.Decimal
	taxRate      decimal.Decimal
}

// NewCalculator creates a calculator with the configured pricing rules
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{
		shippingFlat: cfg.Pricing.ShippingFlat,
		taxRate:      cfg.Pricing.TaxRate,
	}
}

// ComputeTotals maps cart lines to subtotal, shipping, tax and grand total.
// Shipping is a flat fee charged even on an empty cart; tax is rounded to
// two places, everything else stays unrounded until presentation.
func (c *Calculator) ComputeTotals(lines []cart.Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	tax := subtotal.Mul(c.taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: c.shippingFlat,
		Tax:      tax,
		Total:    subtotal.Add(c.shippingFlat).Add(tax),
	}
}
