// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one product-to-quantity entry in the cart. Title, price and image
// are denormalized snapshots captured when the product was first added, so
// the cart renders without re-fetching the catalog. Invariants: at most one
// line per product id, quantity always >= 1.
type Line struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// Subtotal returns price * quantity without rounding
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// persistedCart is the serialized form written to the storage slot
type persistedCart struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}
