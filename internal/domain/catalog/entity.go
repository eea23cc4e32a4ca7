// internal/domain/catalog/entity.go
package catalog

import (
	"github.com/shopspring/decimal"
)

// Rating represents aggregate customer rating for a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a product record as served by the upstream catalog API.
// Products are immutable once fetched; the cart keeps its own snapshot of the
// fields it needs to render.
type Product struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
	Rating   Rating          `json:"rating"`
}

// CategoryAll selects the unfiltered product list
const CategoryAll = "all"
