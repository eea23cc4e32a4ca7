// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/swiftcart/internal/domain/cart"
	"github.com/your-org/swiftcart/internal/domain/catalog"
	"github.com/your-org/swiftcart/internal/session"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	sessions *session.Manager
	catalog  *catalog.Cache
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *session.Manager, cache *catalog.Cache) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  cache,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s := h.session(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(s),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	s := h.session(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	if err := s.Cart.AddItem(c.Request.Context(), product, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.cartResponse(s),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	s := h.session(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := s.Cart.SetQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cart.ErrLineNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartResponse(s),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	s := h.session(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	if err := s.Cart.RemoveItem(c.Request.Context(), productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.cartResponse(s),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	s := h.session(c)

	if err := s.Cart.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count - used for the cart badge
func (h *CartHandler) GetCartCount(c *gin.Context) {
	s := h.session(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": s.Cart.ItemCount(),
		},
	})
}

func (h *CartHandler) session(c *gin.Context) *session.Session {
	return h.sessions.Get(c.Request.Context(), getOrCreateSessionID(c))
}

func (h *CartHandler) cartResponse(s *session.Session) gin.H {
	return gin.H{
		"items":      s.Cart.Lines(),
		"item_count": s.Cart.ItemCount(),
		"total":      s.Cart.Total().StringFixed(2),
	}
}
