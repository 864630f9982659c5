package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/checkout"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CatalogReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type CatalogHandler struct {
	catalog CatalogReader
	timeout time.Duration
	log     *zap.Logger
}

func NewCatalogHandler(catalog CatalogReader, timeout time.Duration, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, timeout: timeout, log: log}
}

// productView adds the payment modes checkout will offer.
type productView struct {
	models.Product
	PaymentModes []models.PaymentMode `json:"paymentModes"`
	DefaultMode  models.PaymentMode   `json:"defaultMode"`
}

func newProductView(p models.Product) productView {
	modes := checkout.OfferedModes(p.PaymentSettings)
	return productView{Product: p, PaymentModes: modes, DefaultMode: modes[0]}
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch product")
	}

	return c.JSON(http.StatusOK, newProductView(*product))
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx, c.QueryParam("category"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch products")
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch categories")
	}
	return c.JSON(http.StatusOK, categories)
}
