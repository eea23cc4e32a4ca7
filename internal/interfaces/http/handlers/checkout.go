// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/swiftcart/internal/domain/checkout"
	"github.com/your-org/swiftcart/internal/session"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	sessions *session.Manager
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *session.Manager) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// PaymentMethodRequest represents a payment method selection
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// GetCheckout handles GET /checkout - current state for re-rendering
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	s := h.session(c)

	data := gin.H{
		"state": s.Checkout.State(),
	}
	if s.Checkout.State() == checkout.StateOpen {
		data["totals"] = s.Checkout.Totals()
		data["payment_method"] = s.Checkout.PaymentMethod()
	}
	if order := s.Checkout.Order(); order != nil {
		data["order"] = order
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout state retrieved successfully",
		"data":    data,
	})
}

// OpenCheckout handles POST /checkout
func (h *CheckoutHandler) OpenCheckout(c *gin.Context) {
	s := h.session(c)

	totals, err := s.Checkout.Open(c.Request.Context())
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout opened successfully",
		"data": gin.H{
			"state":          s.Checkout.State(),
			"totals":         totals,
			"payment_method": s.Checkout.PaymentMethod(),
		},
	})
}

// CloseCheckout handles DELETE /checkout - cancel without ordering
func (h *CheckoutHandler) CloseCheckout(c *gin.Context) {
	s := h.session(c)

	if err := s.Checkout.Close(c.Request.Context()); err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout closed successfully",
	})
}

// SetPaymentMethod handles PUT /checkout/payment-method
func (h *CheckoutHandler) SetPaymentMethod(c *gin.Context) {
	s := h.session(c)

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := s.Checkout.SetPaymentMethod(checkout.PaymentMethod(req.PaymentMethod)); err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method updated successfully",
		"data": gin.H{
			"payment_method": s.Checkout.PaymentMethod(),
		},
	})
}

// PlaceOrder handles POST /checkout/order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	s := h.session(c)

	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := s.Checkout.PlaceOrder(c.Request.Context(), form)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"data":    order,
	})
}

// AckSuccess handles POST /checkout/ack - continue shopping
func (h *CheckoutHandler) AckSuccess(c *gin.Context) {
	s := h.session(c)

	s.Checkout.AckSuccess()

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout acknowledged successfully",
		"data": gin.H{
			"state": s.Checkout.State(),
		},
	})
}

func (h *CheckoutHandler) session(c *gin.Context) *session.Session {
	return h.sessions.Get(c.Request.Context(), getOrCreateSessionID(c))
}

// writeCheckoutError maps core error kinds to HTTP responses. The core
// signals errors as values; this is the only place they become status codes.
func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "Checkout validation failed",
			"validation_errors": validationErr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order submission already in progress",
		})
	case errors.Is(err, checkout.ErrNotOpen):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Checkout is not open",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout operation failed",
		})
	}
}
