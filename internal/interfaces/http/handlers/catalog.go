// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/swiftcart/internal/domain/catalog"
)

// CatalogHandler handles catalog endpoints
type CatalogHandler struct {
	cache *catalog.Cache
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{cache: cache}
}

// GetProducts handles GET /products?category=...
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	category := c.DefaultQuery("category", catalog.CategoryAll)

	products, err := h.cache.ProductsForCategory(c.Request.Context(), category)
	if err != nil {
		// Reportable, non-fatal: the grid renders empty and a retry is
		// allowed on the next request
		c.JSON(http.StatusOK, gin.H{
			"message": "Catalog temporarily unavailable",
			"data":    products,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, ok := h.cache.Product(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetCategories handles GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    h.cache.Categories(),
	})
}

// Refresh handles POST /catalog/refresh - re-fetches products and categories
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.cache.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Catalog refresh failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog refreshed successfully",
		"data": gin.H{
			"products":   len(h.cache.Products()),
			"categories": len(h.cache.Categories()),
		},
	})
}
