// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/swiftcart/internal/domain/catalog"
	"github.com/your-org/swiftcart/internal/interfaces/http/handlers"
	"github.com/your-org/swiftcart/internal/session"
)

// SetupCatalogRoutes sets up catalog related routes
func SetupCatalogRoutes(rg *gin.RouterGroup, cache *catalog.Cache) {
	catalogHandler := handlers.NewCatalogHandler(cache)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	rg.GET("/categories", catalogHandler.GetCategories)
	rg.POST("/catalog/refresh", catalogHandler.Refresh)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, sessions *session.Manager, cache *catalog.Cache) {
	cartHandler := handlers.NewCartHandler(sessions, cache)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up checkout related routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, sessions *session.Manager) {
	checkoutHandler := handlers.NewCheckoutHandler(sessions)

	checkout := rg.Group("/checkout")
	{
		checkout.GET("", checkoutHandler.GetCheckout)
		checkout.POST("", checkoutHandler.OpenCheckout)
		checkout.DELETE("", checkoutHandler.CloseCheckout)
		checkout.PUT("/payment-method", checkoutHandler.SetPaymentMethod)
		checkout.POST("/order", checkoutHandler.PlaceOrder)
		checkout.POST("/ack", checkoutHandler.AckSuccess)
	}
}

// SetupRoutes sets up all application routes
func SetupRoutes(rg *gin.RouterGroup, cache *catalog.Cache, sessions *session.Manager) {
	SetupCatalogRoutes(rg, cache)
	SetupCartRoutes(rg, sessions, cache)
	SetupCheckoutRoutes(rg, sessions)
}
