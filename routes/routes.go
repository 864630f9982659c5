package routes

import (
	"net/http"

	"github.com/imaginarygifts/storefront-backend-go/handlers"
	customMiddleware "github.com/imaginarygifts/storefront-backend-go/middleware"
	"github.com/imaginarygifts/storefront-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Checkout *handlers.CheckoutHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Admin    *handlers.AdminHandler
}

func SetupRoutes(e *echo.Echo, h Handlers, tokens *utils.TokenIssuer) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/otp/send", h.Auth.SendOTP)
	api.POST("/auth/otp/verify", h.Auth.VerifyOTP)

	api.GET("/products", h.Catalog.GetProducts)
	api.GET("/products/:id", h.Catalog.GetProduct)
	api.GET("/categories", h.Catalog.GetCategories)

	api.POST("/checkout/quote", h.Checkout.Quote)
	api.POST("/checkout/payments", h.Checkout.StartPayment)
	api.POST("/checkout/orders", h.Checkout.CreateOrder)
	api.POST("/checkout/orders/:id/payment", h.Checkout.ConfirmPayment)

	// Signed-in users
	users := api.Group("/users", customMiddleware.AuthMiddleware(tokens))
	users.GET("/me", h.Users.GetUserProfile)
	users.PUT("/me", h.Users.UpdateUserProfile)

	admin := api.Group("/admin", customMiddleware.AuthMiddleware(tokens), customMiddleware.RequireAdmin)
	admin.GET("/orders", h.Admin.ListOrders)
	admin.GET("/orders/:id", h.Admin.GetOrder)
	admin.PATCH("/orders/:id/status", h.Admin.UpdateOrderStatus)
	admin.GET("/stats", h.Admin.Stats)
}
